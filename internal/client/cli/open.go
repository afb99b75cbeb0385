package cli

import (
	"context"

	"github.com/iudanet/geotaste/internal/client/route"
)

// runOpen показывает, что увидит пользователь при переходе по пути
func (c *Cli) runOpen(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("open PATH")
	}

	decision := route.Resolve(c.store.Status(), c.role(), args[0])
	switch decision.Action {
	case route.Render:
		page, _, _ := route.Match(args[0])
		c.io.Printf("render %s (%s)\n", page.Path, page.Title)
	case route.Redirect:
		c.io.Printf("redirect %s\n", decision.Target)
	default:
		c.io.Println(decision.Action.String())
	}
	return nil
}
