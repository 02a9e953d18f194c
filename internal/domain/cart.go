package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const EmptyCartText = "Your cart is empty."

// CartKey идентифицирует корзину покупателя в конкретном канале.
type CartKey struct {
	CustomerID string
	ScopeID    string
}

func NewCartKey(customerID, scopeID string) CartKey {
	return CartKey{CustomerID: customerID, ScopeID: scopeID}
}

func (k CartKey) String() string {
	return k.CustomerID + ":" + k.ScopeID
}

// CartLine — позиция корзины, сопоставленная с активным товаром.
type CartLine struct {
	ProductID string
	Name      string
	ImageURL  string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

func NewCartLine(p *Product, qty int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		ImageURL:  p.ImageURL,
		Quantity:  qty,
		UnitPrice: p.Price,
		Subtotal:  p.Price.Mul(decimal.NewFromInt(int64(qty))),
	}
}

func (l CartLine) String() string {
	return fmt.Sprintf("%s x%d — %s", l.Name, l.Quantity, FormatBRL(l.Subtotal))
}

// CartSummary — итог корзины. Пустая корзина имеет Total = 0 и не содержит строк.
type CartSummary struct {
	Lines []CartLine
	Total decimal.Decimal
}

func (s *CartSummary) IsEmpty() bool {
	return len(s.Lines) == 0 || !s.Total.IsPositive()
}

// Text возвращает построчное описание корзины с итогом.
func (s *CartSummary) Text() string {
	if len(s.Lines) == 0 {
		return EmptyCartText
	}

	var b strings.Builder
	for _, line := range s.Lines {
		b.WriteString("• ")
		b.WriteString(line.String())
		b.WriteString("\n")
	}
	b.WriteString("\nTotal: ")
	b.WriteString(FormatBRL(s.Total))

	return b.String()
}
