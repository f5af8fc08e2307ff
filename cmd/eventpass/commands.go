package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eventpass/eventpass-go/eventpass"
	"github.com/eventpass/eventpass-go/httpclient"
	"github.com/eventpass/eventpass-go/internal/utils"
	"github.com/pkg/errors"
)

const commandTimeout = 30 * time.Second

func (a *app) dispatch(args []string, password string, pr httpclient.PageRequest) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	command, rest := args[0], args[1:]
	switch command {
	case "login":
		return a.login(ctx, rest, password)
	case "logout":
		a.ctrl.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.whoami(ctx)
	case "events":
		return a.listEvents(ctx, pr)
	case "venues":
		return a.listVenues(ctx, pr)
	case "history":
		return a.history(ctx, pr)
	case "checkout":
		return a.checkout(ctx, rest)
	case "buy":
		return a.buy(ctx, rest)
	default:
		return errors.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string, password string) error {
	if len(args) != 1 {
		return errors.New("usage: eventpass login <email>")
	}
	if password == "" {
		fmt.Print("Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return errors.Wrap(err, "reading password")
		}
		password = strings.TrimSpace(line)
	}

	if err := a.ctrl.Login(ctx, args[0], password); err != nil {
		if msg := a.ctrl.Snapshot().LastError; msg != "" {
			return errors.New(msg)
		}
		return err
	}

	user := a.ctrl.Snapshot().CurrentUser
	fmt.Printf("logged in as %s (%s)\n", user.DisplayName, user.Role)
	return nil
}

// resolveUser makes sure the persisted session has its profile loaded before
// a command that needs it runs.
func (a *app) resolveUser(ctx context.Context) (*eventpass.UserProfile, error) {
	if err := a.ctrl.Bootstrap(ctx); err != nil {
		return nil, err
	}
	user := a.ctrl.Snapshot().CurrentUser
	if user == nil {
		return nil, errors.New("not logged in, run: eventpass login <email>")
	}
	return user, nil
}

func (a *app) whoami(ctx context.Context) error {
	user, err := a.resolveUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s> role=%s", user.DisplayName, user.Email, user.Role)
	if phone := utils.Value(user.PhoneNumber); phone != "" {
		fmt.Printf(" phone=%s", phone)
	}
	fmt.Printf(" avatar=%s\n", utils.ValueOr(user.ProfileImageURL, "none"))
	return nil
}

func (a *app) listEvents(ctx context.Context, pr httpclient.PageRequest) error {
	if _, err := a.resolveUser(ctx); err != nil {
		return err
	}
	page, err := a.api.Events.List(ctx, pr)
	if err != nil {
		return err
	}
	for _, event := range page.Data {
		fmt.Printf("%4d  %-30s  %8.2f  %d left\n", event.ID, event.Name, event.TicketPrice, eventpass.Availability(event))
	}
	printMeta(page.Meta)
	return nil
}

func (a *app) listVenues(ctx context.Context, pr httpclient.PageRequest) error {
	if _, err := a.resolveUser(ctx); err != nil {
		return err
	}
	page, err := a.api.Venues.List(ctx, pr)
	if err != nil {
		return err
	}
	for _, venue := range page.Data {
		fmt.Printf("%4d  %-30s  %-20s  cap %d\n", venue.ID, venue.Name, venue.City, venue.Capacity)
	}
	printMeta(page.Meta)
	return nil
}

func (a *app) history(ctx context.Context, pr httpclient.PageRequest) error {
	user, err := a.resolveUser(ctx)
	if err != nil {
		return err
	}
	page, err := a.api.Transactions.ListForUser(ctx, user.ID, pr)
	if err != nil {
		return err
	}
	for _, txn := range page.Data {
		fmt.Printf("%4d  event %-4d  x%-3d  %8.2f  %-10s  %s\n",
			txn.ID, txn.EventID, txn.Quantity, txn.Total, txn.Status, txn.TicketCode)
	}
	printMeta(page.Meta)
	return nil
}

func (a *app) checkout(ctx context.Context, args []string) error {
	event, quantity, err := a.eventAndQuantity(ctx, args, "checkout")
	if err != nil {
		return err
	}
	summary, err := eventpass.BuildOrderSummary([]eventpass.TicketSelection{{Event: *event, Quantity: quantity}})
	if err != nil {
		return err
	}
	line := summary.Lines[0]
	fmt.Printf("%s: %d x %.2f = %.2f\n", line.Event.Name, line.Quantity, line.UnitPrice, line.LineTotal)
	fmt.Printf("subtotal: %.2f\n", summary.Subtotal)
	return nil
}

func (a *app) buy(ctx context.Context, args []string) error {
	event, quantity, err := a.eventAndQuantity(ctx, args, "buy")
	if err != nil {
		return err
	}
	// Validate locally first so an obviously impossible order never leaves
	// the machine; the backend still owns the real inventory decision.
	if _, err := eventpass.BuildOrderSummary([]eventpass.TicketSelection{{Event: *event, Quantity: quantity}}); err != nil {
		return err
	}
	txn, err := a.api.Transactions.Create(ctx, eventpass.PurchaseRequest{EventID: event.ID, Quantity: quantity})
	if err != nil {
		return err
	}
	fmt.Printf("purchased %d ticket(s) for %s, total %.2f, code %s\n", txn.Quantity, event.Name, txn.Total, txn.TicketCode)
	return nil
}

func (a *app) eventAndQuantity(ctx context.Context, args []string, command string) (*eventpass.Event, int, error) {
	if len(args) != 2 {
		return nil, 0, errors.Errorf("usage: eventpass %s <event-id> <quantity>", command)
	}
	if _, err := a.resolveUser(ctx); err != nil {
		return nil, 0, err
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, 0, errors.Errorf("invalid event id %q", args[0])
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, 0, errors.Errorf("invalid quantity %q", args[1])
	}
	event, err := a.api.Events.Get(ctx, id)
	if httpclient.IsNotFound(err) {
		return nil, 0, errors.Errorf("no event with id %d", id)
	}
	if err != nil {
		return nil, 0, err
	}
	return event, quantity, nil
}

func printMeta(meta httpclient.Meta) {
	fmt.Printf("page %d/%d (%d total)\n", meta.CurrentPage, meta.LastPage, meta.Total)
}
