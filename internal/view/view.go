// Package view renders the storefront pages.  Templates are embedded in the
// binary and parsed once; each page is executed together with the shared
// layout.
package view

import (
    "embed"
    "fmt"
    "html/template"
    "io"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/reservas-express/internal/model"
    "github.com/iliyamo/reservas-express/internal/payment"
)

//go:embed templates/*.html
var files embed.FS

// Page names accepted by Renderer.Render.
const (
    PageHome         = "home"
    PageCheckout     = "checkout"
    PageConfirmation = "confirmation"
    PageError        = "error"
)

var funcs = template.FuncMap{
    "money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
    "lower": strings.ToLower,
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
    pages map[string]*template.Template
}

// New parses the layout and every page.  It fails on the first template
// error so a broken build never starts serving.
func New() (*Renderer, error) {
    r := &Renderer{pages: map[string]*template.Template{}}
    for _, name := range []string{PageHome, PageCheckout, PageConfirmation, PageError} {
        t, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+name+".html")
        if err != nil {
            return nil, fmt.Errorf("view: parse %s: %w", name, err)
        }
        r.pages[name] = t
    }
    return r, nil
}

// Render executes page name with data inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
    t, ok := r.pages[name]
    if !ok {
        return fmt.Errorf("view: unknown page %q", name)
    }
    return t.ExecuteTemplate(w, "layout.html", data)
}

// HomeData feeds the availability page.
type HomeData struct {
    StartDate string
    EndDate   string
    Searched  bool
    Items     []model.AvailabilityItem
    Category  model.Category
    Quantity  int
    Email     string
    Error     string
}

// CheckoutData feeds the payment form.
type CheckoutData struct {
    Reservation model.Reservation
    Form        payment.FormInput
    Errors      payment.FormErrors
    Notice      string
    CanSubmit   bool
}

// ErrorList returns the field messages in form order.
func (d CheckoutData) ErrorList() []string {
    var out []string
    for _, f := range payment.Fields {
        if msg := d.Errors.Get(f); msg != "" {
            out = append(out, msg)
        }
    }
    return out
}

// ConfirmationData feeds the confirmation page.
type ConfirmationData struct {
    Reservation model.Reservation
    TicketURL   string
    ReceiptURL  string
}

// ErrorData feeds the generic error page.
type ErrorData struct {
    Status  int
    Message string
}
