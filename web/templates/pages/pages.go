// Package pages renders the html views of the tracker.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/jon4hz/familytravel/internal/api/models"
	"github.com/jon4hz/familytravel/web/templates/components"
)

//go:embed *.html
var templateFS embed.FS

// Colors offered on the new user form.
var Colors = []string{"red", "orange", "yellow", "olive", "green", "teal", "powderblue", "blue", "violet", "purple", "pink"}

var pages = template.Must(
	template.New("pages").
		Funcs(template.FuncMap{
			"count": components.FormatCount,
			"flag":  components.CountryFlag,
		}).
		ParseFS(templateFS, "*.html"),
)

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// Home renders the visited countries of the active user.
func Home(view models.HomeView) templ.Component {
	return render("home", view)
}

// NewUser renders the form to add a household member.
func NewUser() templ.Component {
	return render("new-user", Colors)
}
