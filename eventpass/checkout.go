package eventpass

import (
	"math"

	"github.com/pkg/errors"
)

// Checkout errors.
var (
	ErrSoldOut             = errors.New("event is sold out")
	ErrInsufficientTickets = errors.New("not enough tickets available")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
)

// Availability derives how many tickets remain for an event. The quota and
// sold counters are backend-owned; this is purely a client-side derivation
// for the checkout screen.
func Availability(e Event) int {
	remaining := e.TicketQuota - e.TicketsSold
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TicketSelection is one event plus a requested quantity in a checkout.
type TicketSelection struct {
	Event    Event
	Quantity int
}

// OrderLine is a priced selection inside an order summary.
type OrderLine struct {
	Event     Event
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// OrderSummary is the client-side subtotal shown before the purchase is
// submitted. The backend recomputes everything on capture.
type OrderSummary struct {
	Lines    []OrderLine
	Subtotal float64
}

// BuildOrderSummary validates the selections against derived availability
// and computes per-line totals and the subtotal.
func BuildOrderSummary(selections []TicketSelection) (OrderSummary, error) {
	summary := OrderSummary{Lines: make([]OrderLine, 0, len(selections))}
	for _, sel := range selections {
		if sel.Quantity < 1 {
			return OrderSummary{}, errors.Wrapf(ErrInvalidQuantity, "event %q", sel.Event.Name)
		}
		available := Availability(sel.Event)
		if available == 0 {
			return OrderSummary{}, errors.Wrapf(ErrSoldOut, "event %q", sel.Event.Name)
		}
		if sel.Quantity > available {
			return OrderSummary{}, errors.Wrapf(ErrInsufficientTickets, "event %q has %d left", sel.Event.Name, available)
		}
		lineTotal := roundCurrency(sel.Event.TicketPrice * float64(sel.Quantity))
		summary.Lines = append(summary.Lines, OrderLine{
			Event:     sel.Event,
			Quantity:  sel.Quantity,
			UnitPrice: sel.Event.TicketPrice,
			LineTotal: lineTotal,
		})
		summary.Subtotal = roundCurrency(summary.Subtotal + lineTotal)
	}
	return summary, nil
}

func roundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
