package camp

import "github.com/Rhymond/go-money"

// Program is a camp offering with a fixed price. There is currently a single
// program; the type exists so price and copy live in one place instead of
// being scattered through handlers.
type Program struct {
	// Name is the product name shown on the hosted checkout page.
	Name string
	// Label is the short program label stored on registration records.
	Label       string
	Description string
	Price       *money.Money
}

func SummerProgram() Program {
	return Program{
		Name:        "AAA Sports Camp - 6-Week Summer Program",
		Label:       "6-Week Summer Camp",
		Description: "12 sessions (Tuesdays & Thursdays, 10:00 AM - 12:00 PM)",
		Price:       money.New(24900, money.USD),
	}
}
