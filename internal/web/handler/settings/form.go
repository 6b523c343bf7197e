package settings

import (
	"regexp"

	"github.com/gofiber/fiber/v2"
)

var formKeyRegex = regexp.MustCompile(`^curtain\[(\w+)](\[])?$`)

// parseForm collects the curtain[...] fields of a POST body. curtain[x][]
// keys accumulate into a list. An empty curtain[roles][] list is kept so
// the form can clear the roles.
func parseForm(c *fiber.Ctx) map[string][]string {
	submitted := make(map[string][]string)

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		matches := formKeyRegex.FindStringSubmatch(string(key))
		if len(matches) != 3 {
			return
		}

		name := matches[1]

		if matches[2] == "" {
			submitted[name] = []string{string(value)}
			return
		}

		if _, ok := submitted[name]; !ok {
			submitted[name] = []string{}
		}

		if len(value) > 0 {
			submitted[name] = append(submitted[name], string(value))
		}
	})

	return submitted
}
