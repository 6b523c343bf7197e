// Package navigation holds the page title, menu state and breadcrumbs of
// admin pages.
package navigation

// BreadcrumbItem is one link of the breadcrumb trail.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context is handed to the admin layout.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a navigation context for an admin page.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// AddBreadcrumb appends a link to the trail.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive reports whether section and page are the current menu entry.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive reports whether section holds the current page.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// DocumentTitle is the <title> of the page, e.g. "Curtain ‹ My Site".
func (c *Context) DocumentTitle(siteTitle string) string {
	switch {
	case siteTitle == "":
		return c.PageTitle
	case c.PageTitle == "":
		return siteTitle
	default:
		return c.PageTitle + " ‹ " + siteTitle
	}
}
