// Package main provides the entry point for GoCurtain, a maintenance-mode
// gate for a web site. While the curtain is down anonymous visitors get a
// 503 notice page. Logged-in users keep access, and users whose role holds
// manage_curtain can flip the mode from the admin bar. The notice colors and
// texts plus the roles allowed to toggle are edited on the settings page.
package main
