package view

import (
	"fmt"
	"html/template"
	"strings"
)

// Fragment names served to the pages.
const (
	FragmentBadge    = "badge"
	FragmentMiniCart = "mini-cart"
	FragmentCart     = "cart"
	FragmentWishlist = "wishlist"
)

const fragmentTemplates = `
{{define "badge"}}{{if .}}<span class="header-cart-badge">{{.}}</span>{{end}}{{end}}

{{define "mini-cart"}}
<aside class="mini-cart">
{{- if .Empty}}
  <p class="mini-cart-empty">Your cart is empty</p>
{{- else}}
  <ul class="mini-cart-lines">
  {{- range .Lines}}
    <li data-id="{{.ID}}">
      <img src="{{.Image}}" alt="{{.Name}}">
      <span class="mini-cart-name">{{.Name}}</span>
      <span class="mini-cart-qty">{{.Quantity}} &times; {{.UnitPrice}}</span>
      <button class="mini-cart-remove" data-id="{{.ID}}" aria-label="Remove {{.Name}}">&times;</button>
    </li>
  {{- end}}
  </ul>
  <p class="mini-cart-subtotal">Subtotal: <strong>{{.Subtotal}}</strong></p>
{{- end}}
</aside>
{{end}}

{{define "cart"}}
{{- if .Empty}}
<div class="cart-empty">
  <p>Your cart is empty</p>
  <a href="shop.html" class="btn">Continue shopping</a>
</div>
{{- else}}
<table class="cart-table">
  <tbody>
  {{- range .Lines}}
    <tr data-id="{{.ID}}">
      <td><img src="{{.Image}}" alt="{{.Name}}"></td>
      <td>{{.Name}}</td>
      <td>{{.UnitPrice}}</td>
      <td><input type="number" class="cart-qty" min="1" value="{{.Quantity}}" data-id="{{.ID}}"></td>
      <td>{{.LineTotal}}</td>
      <td><button class="cart-remove" data-id="{{.ID}}">Remove</button></td>
    </tr>
  {{- end}}
  </tbody>
  <tfoot>
    <tr><td>Subtotal</td><td>{{.Subtotal}}</td></tr>
    <tr><td>Total</td><td>{{.Total}}</td></tr>
    <tr><td colspan="2"><button class="cart-clear">Clear cart</button></td></tr>
  </tfoot>
</table>
{{- end}}
{{end}}

{{define "wishlist"}}
{{- if .Empty}}
<div class="wishlist-empty">
  <p>Your wishlist is empty</p>
  <a href="shop.html" class="btn">Browse products</a>
</div>
{{- else}}
<table class="wishlist-table">
  <tbody>
  {{- range .Rows}}
    <tr data-id="{{.ID}}">
      <td><img src="{{.Image}}" alt="{{.Name}}"></td>
      <td>{{.Name}}</td>
      <td>{{.UnitPrice}}</td>
      <td><button class="wishlist-heart{{if .Saved}} is-saved{{end}}" data-id="{{.ID}}">&#9829;</button></td>
      <td><button class="wishlist-to-cart" data-id="{{.ID}}">Add to cart</button></td>
      <td><button class="wishlist-remove" data-id="{{.ID}}">Remove</button></td>
    </tr>
  {{- end}}
  </tbody>
</table>
{{- end}}
{{end}}
`

// Renderer executes the fragment templates.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("fragments").Parse(fragmentTemplates))}
}

// Render executes the named fragment against the given view model.
func (r *Renderer) Render(name string, data any) (string, error) {
	var b strings.Builder
	if err := r.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render fragment %s: %w", name, err)
	}
	return strings.TrimSpace(b.String()), nil
}
