// Package menu implements the interactive text front-end. It is a thin
// adapter: every choice translates user input into one service call and the
// result into user-visible text.
package menu

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mridulgandhi29/real-estate-tracker/internal/app"
	"github.com/mridulgandhi29/real-estate-tracker/internal/domain"
)

type ListingService interface {
	CreateListing(ctx context.Context, in app.CreateListingInput) (domain.Listing, error)
	ListListings(ctx context.Context, page int) ([]domain.Listing, error)
	FindByCity(ctx context.Context, city string) ([]domain.Listing, error)
	UpdatePrice(ctx context.Context, id string, price int64) error
	DeleteListing(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) ([]string, error)
}

type PurchaseService interface {
	Purchase(ctx context.Context, in app.PurchaseInput) (app.PurchaseResult, error)
}

type ReportService interface {
	AvgPriceByCity(ctx context.Context) ([]app.CityAverage, error)
	ExportCSV(ctx context.Context, w io.Writer) (int, error)
}

const text = `
1) Insert listing
2) List listings (page)
3) Find by city
4) Update price
5) Delete listing
6) Create indexes
7) Avg price per city
8) Export CSV
9) Purchase
0) Exit
`

type Menu struct {
	listings   ListingService
	purchases  PurchaseService
	reports    ReportService
	in         *bufio.Scanner
	out        io.Writer
	exportPath string
}

func New(listings ListingService, purchases PurchaseService, reports ReportService, in io.Reader, out io.Writer) *Menu {
	return &Menu{
		listings:   listings,
		purchases:  purchases,
		reports:    reports,
		in:         bufio.NewScanner(in),
		out:        out,
		exportPath: "properties_export.csv",
	}
}

// Run loops over the menu until the user exits or input ends.
func (m *Menu) Run(ctx context.Context) error {
	for {
		fmt.Fprint(m.out, text)
		choice, ok := m.prompt("Choose: ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			m.insertListing(ctx)
		case "2":
			m.listListings(ctx)
		case "3":
			m.findByCity(ctx)
		case "4":
			m.updatePrice(ctx)
		case "5":
			m.deleteListing(ctx)
		case "6":
			m.createIndexes(ctx)
		case "7":
			m.avgPricePerCity(ctx)
		case "8":
			m.exportCSV(ctx)
		case "9":
			m.purchase(ctx)
		case "0":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice")
		}
	}
}

func (m *Menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) promptInt(label string) (int64, bool) {
	raw, ok := m.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		fmt.Fprintln(m.out, "Must be a number")
		return 0, false
	}
	return n, true
}

func (m *Menu) insertListing(ctx context.Context) {
	title, ok := m.prompt("title: ")
	if !ok {
		return
	}
	city, ok := m.prompt("city: ")
	if !ok {
		return
	}
	price, ok := m.promptInt("price: ")
	if !ok {
		return
	}

	listing, err := m.listings.CreateListing(ctx, app.CreateListingInput{Title: title, City: city, Price: price})
	if err != nil {
		fmt.Fprintln(m.out, "Error:", err)
		return
	}
	fmt.Fprintln(m.out, "Inserted id:", listing.ID)
}

func (m *Menu) listListings(ctx context.Context) {
	page, ok := m.promptInt("page (1): ")
	if !ok || page < 1 {
		page = 1
	}
	listings, err := m.listings.ListListings(ctx, int(page))
	if err != nil {
		fmt.Fprintln(m.out, "Error:", err)
		return
	}
	if len(listings) == 0 {
		fmt.Fprintln(m.out, "No listings found.")
		return
	}
	m.printListings(listings)
}

func (m *Menu) findByCity(ctx context.Context) {
	city, ok := m.prompt("city: ")
	if !ok {
		return
	}
	listings, err := m.listings.FindByCity(ctx, city)
	if err != nil {
		fmt.Fprintln(m.out, "Error:", err)
		return
	}
	if len(listings) == 0 {
		fmt.Fprintln(m.out, "No listings in", city)
		return
	}
	m.printListings(listings)
}

func (m *Menu) updatePrice(ctx context.Context) {
	id, ok := m.prompt("listing id: ")
	if !ok {
		return
	}
	price, ok := m.promptInt("new price: ")
	if !ok {
		return
	}
	if err := m.listings.UpdatePrice(ctx, id, price); err != nil {
		fmt.Fprintln(m.out, "Error updating:", err)
		return
	}
	fmt.Fprintln(m.out, "Price updated.")
}

func (m *Menu) deleteListing(ctx context.Context) {
	id, ok := m.prompt("listing id: ")
	if !ok {
		return
	}
	if err := m.listings.DeleteListing(ctx, id); err != nil {
		fmt.Fprintln(m.out, "Error deleting:", err)
		return
	}
	fmt.Fprintln(m.out, "Deleted.")
}

func (m *Menu) createIndexes(ctx context.Context) {
	names, err := m.listings.EnsureIndexes(ctx)
	if err != nil {
		fmt.Fprintln(m.out, "Error creating indexes:", err)
		return
	}
	fmt.Fprintln(m.out, "Created indexes:", strings.Join(names, ", "))
}

func (m *Menu) avgPricePerCity(ctx context.Context) {
	rows, err := m.reports.AvgPriceByCity(ctx)
	if err != nil {
		fmt.Fprintln(m.out, "Error:", err)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(m.out, "No aggregate results.")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(m.out, "%s: avg %.2f over %d listings\n", row.City, row.AvgPrice, row.Count)
	}
}

func (m *Menu) exportCSV(ctx context.Context) {
	f, err := os.Create(m.exportPath)
	if err != nil {
		fmt.Fprintln(m.out, "Failed to export:", err)
		return
	}
	defer f.Close()

	n, err := m.reports.ExportCSV(ctx, f)
	if err != nil {
		fmt.Fprintln(m.out, "Failed to export:", err)
		return
	}
	fmt.Fprintf(m.out, "Exported %d rows to %s\n", n, m.exportPath)
}

func (m *Menu) purchase(ctx context.Context) {
	id, ok := m.prompt("listing id: ")
	if !ok {
		return
	}
	buyer, ok := m.prompt("buyer name: ")
	if !ok {
		return
	}
	offer, ok := m.promptInt("offer price: ")
	if !ok {
		return
	}

	res, err := m.purchases.Purchase(ctx, app.PurchaseInput{ListingID: id, BuyerName: buyer, OfferPrice: offer})
	if err != nil {
		if domain.IsValidation(err) {
			fmt.Fprintln(m.out, "Invalid input:", err)
			return
		}
		fmt.Fprintln(m.out, "Transaction failed:", err)
		return
	}

	switch res.Outcome {
	case domain.OutcomeSold:
		fmt.Fprintln(m.out, "Purchase success (transaction)")
	case domain.OutcomeSoldDegraded:
		fmt.Fprintln(m.out, "Purchase success (no transactions available on this server)")
	case domain.OutcomeSoldUnrecorded:
		fmt.Fprintln(m.out, "WARNING: listing marked sold but failed to record the sale:", res.RecordErr)
	case domain.OutcomeUnavailable:
		fmt.Fprintln(m.out, "Not available")
	}
}

func (m *Menu) printListings(listings []domain.Listing) {
	for _, l := range listings {
		fmt.Fprintf(m.out, "%s | %-28s | %-10s | %10d | %s\n",
			l.ID, l.Title, l.City, l.Price, l.Status)
	}
}
