package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gabyel-dev/CafeRealitea/api"
	"github.com/gabyel-dev/CafeRealitea/dashboard"
	"github.com/gabyel-dev/CafeRealitea/notify"
	"github.com/gabyel-dev/CafeRealitea/order"
	"github.com/gabyel-dev/CafeRealitea/pending"
	"github.com/gabyel-dev/CafeRealitea/session"
	"github.com/gabyel-dev/CafeRealitea/views"
)

// App is the interactive POS terminal. One run of the shell corresponds to
// one browser session of the old front-end: login, role-gated screens,
// live notifications, logout.
type App struct {
	cfg    *Config
	client *api.Client
	guard  *session.Guard
	term   *views.Terminal
	in     *bufio.Scanner
	out    io.Writer

	user *api.User
	role session.Role

	watcher         *session.Watcher
	channel         *notify.Channel
	sessionLost     chan struct{}
	markSessionLost func()
}

func NewApp(cfg *Config, in io.Reader, out io.Writer) (*App, error) {
	client, err := api.NewClient(cfg.Address, time.Duration(cfg.RequestTimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:    cfg,
		client: client,
		guard:  session.NewGuard(client),
		term:   views.NewTerminal(out),
		in:     bufio.NewScanner(in),
		out:    out,
	}, nil
}

func (a *App) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(a.cfg.RequestTimeoutSeconds)*time.Second)
}

func (a *App) prompt(label string) (string, bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

// Run drives login shells until the user quits or stdin closes.
func (a *App) Run() error {
	for {
		ok, err := a.login()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		a.shell()
		a.teardown()
	}
}

// login corresponds to the login route. Returns ok=false when the user is
// done with the program.
func (a *App) login() (bool, error) {
	a.term.Title("Login")
	for {
		username, ok := a.prompt("Username (or 'quit'): ")
		if !ok || username == "quit" {
			return false, nil
		}
		password, ok := a.prompt("Password: ")
		if !ok {
			return false, nil
		}

		ctx, cancel := a.ctx()
		_, err := a.client.Login(ctx, username, password)
		cancel()
		if errors.Is(err, api.ErrInvalidCredentials) {
			fmt.Fprintln(a.out, "Login failed. Invalid credentials.")
			continue
		}
		if err != nil {
			return false, fmt.Errorf("login request failed: %w", err)
		}

		ctx, cancel = a.ctx()
		decision := a.guard.Check(ctx, session.RoleUnknown)
		cancel()
		if !decision.Allowed {
			fmt.Fprintln(a.out, "Login did not establish a session, try again.")
			continue
		}

		a.user = decision.Session.User
		a.role = session.ParseRole(decision.Session.Role)
		fmt.Fprintf(a.out, "Login successful! Signed in as %s (%s)\n", username, a.role)
		a.startBackground()
		return true, nil
	}
}

// startBackground launches the session watcher and the notification
// channel for the lifetime of this shell.
func (a *App) startBackground() {
	lost := make(chan struct{})
	a.sessionLost = lost
	a.markSessionLost = sync.OnceFunc(func() { close(lost) })
	a.watcher = session.NewWatcher(a.client,
		time.Duration(a.cfg.SessionCheckSeconds)*time.Second,
		a.markSessionLost)
	a.watcher.Start()

	userID := 0
	if a.user != nil {
		userID = a.user.ID
	}
	a.channel = notify.NewChannel(notify.Config{
		URL:               a.cfg.WSAddress,
		UserID:            userID,
		ReconnectAttempts: a.cfg.ReconnectAttempts,
		ReconnectDelay:    time.Duration(a.cfg.ReconnectDelaySeconds) * time.Second,
		PollInterval:      time.Duration(a.cfg.PollIntervalSeconds) * time.Second,
	}, a.client, a.term)
	a.channel.Start()
}

// teardown mirrors view unmount: no timers or connections survive it.
func (a *App) teardown() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	if a.channel != nil {
		a.channel.Close()
		a.channel = nil
	}
	a.user = nil
	a.role = session.RoleUnknown
}

func (a *App) expired() bool {
	select {
	case <-a.sessionLost:
		fmt.Fprintln(a.out, "Session expired, please log in again.")
		return true
	default:
		return false
	}
}

func (a *App) shell() {
	a.dashboardScreen()
	for {
		if a.expired() {
			return
		}
		line, ok := a.prompt("> ")
		if !ok {
			return
		}
		cmd, rest, _ := strings.Cut(line, " ")
		switch cmd {
		case "":
		case "help":
			fmt.Fprintln(a.out, "commands: overview, sales, order, pending, users, register, lookup <order id>, logout, quit")
		case "overview":
			a.dashboardScreen()
		case "sales":
			a.salesScreen()
		case "order":
			a.orderScreen()
		case "pending":
			a.pendingScreen()
		case "users":
			a.usersScreen()
		case "register":
			a.registerScreen()
		case "lookup":
			a.orderDetailsScreen(rest)
		case "logout", "quit":
			ctx, cancel := a.ctx()
			if err := a.client.Logout(ctx); err != nil {
				log.Errorf("Logout failed: %v", err)
			}
			cancel()
			return
		default:
			fmt.Fprintf(a.out, "unknown command %q, try 'help'\n", cmd)
		}
	}
}

// view runs the guard the way every page of the front-end did on mount.
// A nil return means the screen must not render; the user was already
// redirected somewhere sensible.
func (a *App) view(required session.Role) *api.Session {
	ctx, cancel := a.ctx()
	defer cancel()
	decision := a.guard.Check(ctx, required)
	if decision.Allowed {
		return decision.Session
	}
	if decision.Redirect == session.LoginRoute {
		fmt.Fprintln(a.out, "Session expired, please log in again.")
		if a.markSessionLost != nil {
			a.markSessionLost()
		}
		return nil
	}
	fmt.Fprintf(a.out, "Not allowed here, redirecting to %s\n", decision.Redirect)
	return nil
}

func (a *App) dashboardScreen() {
	s := a.view(session.RoleStaff)
	if s == nil {
		return
	}
	a.term.Title("Dashboard")
	if s.User != nil {
		fmt.Fprintf(a.out, "Welcome back, %s! Here's what's happening with Café Realitea today.\n", s.User.Username)
	}
	ctx, cancel := a.ctx()
	defer cancel()
	overview, err := dashboard.NewLoader(a.client).Overview(ctx)
	if err != nil {
		a.term.Error("dashboard", err)
		return
	}
	a.term.RenderOverview(overview)
}

func (a *App) salesScreen() {
	if a.view(session.RoleAdmin) == nil {
		return
	}
	a.term.Title("Sales History")
	ctx, cancel := a.ctx()
	defer cancel()
	history, err := dashboard.NewLoader(a.client).SalesHistory(ctx)
	if err != nil {
		a.term.Error("sales history", err)
		return
	}
	a.term.RenderSalesHistory(history)
}

// orderDetailsScreen shows one recorded order, the terminal version of the
// order details page.
func (a *App) orderDetailsScreen(arg string) {
	if a.view(session.RoleAdmin) == nil {
		return
	}
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintln(a.out, "usage: lookup <order id>")
		return
	}
	a.term.Title("Order Details")

	ctx, cancel := a.ctx()
	defer cancel()
	record, err := a.client.OrderDetails(ctx, id)
	if err != nil {
		a.term.Error("order details", err)
		return
	}
	a.term.RenderOrderRecord(record)
}

func (a *App) orderScreen() {
	if a.view(session.RoleStaff) == nil {
		return
	}
	a.term.Title("Order Management")

	ctx, cancel := a.ctx()
	categories, err := a.client.Items(ctx)
	cancel()
	if err != nil {
		a.term.Error("menu items", err)
		return
	}
	a.term.RenderCatalog(categories)

	byID := make(map[int]api.MenuItem)
	for _, cat := range categories {
		for _, item := range cat.Items {
			byID[item.ID] = item
		}
	}

	draft := order.NewDraft()
	for {
		line, ok := a.prompt("order> ")
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "add", "remove", "money":
			if len(fields) < 2 {
				fmt.Fprintf(a.out, "usage: %s <value>\n", fields[0])
				continue
			}
		}
		switch fields[0] {
		case "help":
			fmt.Fprintln(a.out, "order commands: add <id>, remove <id>, name <customer>, type <dinein|delivery>, pay <cash|gcash>, money <amount>, show, submit, queue, back")
		case "add":
			id, err := strconv.Atoi(fields[1])
			item, found := byID[id]
			if err != nil || !found {
				fmt.Fprintln(a.out, "no such item")
				continue
			}
			draft.AddItem(item)
			a.term.RenderDraft(draft)
		case "remove":
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintln(a.out, "no such item")
				continue
			}
			draft.RemoveItem(id)
			a.term.RenderDraft(draft)
		case "name":
			draft.CustomerName = strings.Join(fields[1:], " ")
		case "type":
			if len(fields) > 1 && fields[1] == "delivery" {
				draft.OrderType = order.Delivery
			} else {
				draft.OrderType = order.DineIn
			}
		case "pay":
			if len(fields) > 1 && fields[1] == "gcash" {
				draft.PaymentMethod = order.GCash
			} else {
				draft.PaymentMethod = order.Cash
			}
		case "money":
			amount, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Fprintln(a.out, "not an amount")
				continue
			}
			draft.CustomerMoney = amount
			a.term.RenderDraft(draft)
		case "show":
			a.term.RenderDraft(draft)
		case "submit", "queue":
			if a.submitDraft(draft, fields[0] == "queue") {
				draft.Reset()
			}
		case "back":
			return
		default:
			fmt.Fprintf(a.out, "unknown command %q, try 'help'\n", fields[0])
		}
	}
}

// submitDraft sends the order. Input state is preserved on failure so the
// cashier can retry. Underpayment is surfaced but does not block.
func (a *App) submitDraft(draft *order.Draft, asPending bool) bool {
	submission, err := draft.Submission()
	if errors.Is(err, order.ErrEmptyOrder) {
		a.term.Alert("Cannot complete an empty order.")
		return false
	}
	if err != nil {
		a.term.Alert("Could not build the order: " + err.Error())
		return false
	}
	if submission.Change < 0 {
		log.Warningf("Submitting order %s with negative change %.2f", submission.Reference, submission.Change)
	}

	ctx, cancel := a.ctx()
	defer cancel()
	if asPending {
		err = a.client.SubmitPendingOrder(ctx, submission)
	} else {
		err = a.client.SubmitOrder(ctx, submission)
	}
	if err != nil {
		log.Errorf("Order submission failed: %v", err)
		a.term.Alert("Could not submit the order. Your items are kept, try again.")
		return false
	}
	a.term.Alert("Order completed successfully!")
	return true
}

func (a *App) pendingScreen() {
	if a.view(session.RoleAdmin) == nil {
		return
	}
	a.term.Title("Pending Orders")

	review := pending.NewReview(a.client, a.term)
	ctx, cancel := a.ctx()
	err := review.Refresh(ctx)
	cancel()
	if err != nil {
		a.term.Error("pending orders", err)
		return
	}
	a.term.RenderPendingOrders(review.Orders())

	for {
		line, ok := a.prompt("pending> ")
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		id := 0
		if len(fields) > 1 {
			id, _ = strconv.Atoi(fields[1])
		}
		switch fields[0] {
		case "help":
			fmt.Fprintln(a.out, "pending commands: list, view <id>, confirm <id>, cancel <id>, back")
		case "list":
			ctx, cancel := a.ctx()
			if err := review.Refresh(ctx); err != nil {
				a.term.Error("pending orders", err)
			}
			cancel()
			a.term.RenderPendingOrders(review.Orders())
		case "view":
			ctx, cancel := a.ctx()
			details, err := review.View(ctx, id)
			cancel()
			if err != nil {
				a.term.Error("order details", err)
				continue
			}
			a.term.RenderPendingDetails(details)
		case "confirm":
			ctx, cancel := a.ctx()
			review.Confirm(ctx, id)
			cancel()
			a.term.RenderPendingOrders(review.Orders())
		case "cancel":
			ctx, cancel := a.ctx()
			review.Cancel(ctx, id)
			cancel()
			a.term.RenderPendingOrders(review.Orders())
		case "back":
			return
		default:
			fmt.Fprintf(a.out, "unknown command %q, try 'help'\n", fields[0])
		}
	}
}

func (a *App) usersScreen() {
	if a.view(session.RoleAdmin) == nil {
		return
	}
	a.term.Title("Users Management")

	ctx, cancel := a.ctx()
	accounts, err := a.client.Accounts(ctx)
	cancel()
	if err != nil {
		a.term.Error("user accounts", err)
		return
	}
	a.term.RenderAccounts(accounts)

	for {
		line, ok := a.prompt("users> ")
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "help":
			fmt.Fprintln(a.out, "users commands: view <id>, role <id> <Staff|Admin>, back")
		case "view":
			if len(fields) < 2 {
				fmt.Fprintln(a.out, "usage: view <id>")
				continue
			}
			id, _ := strconv.Atoi(fields[1])
			ctx, cancel := a.ctx()
			account, err := a.client.UserDetails(ctx, id)
			cancel()
			if err != nil {
				a.term.Error("user details", err)
				continue
			}
			a.term.RenderAccounts([]api.Account{*account})
		case "role":
			if len(fields) < 3 {
				fmt.Fprintln(a.out, "usage: role <id> <role>")
				continue
			}
			id, _ := strconv.Atoi(fields[1])
			role := session.ParseRole(strings.Join(fields[2:], " "))
			if role == session.RoleUnknown {
				fmt.Fprintln(a.out, "unknown role")
				continue
			}
			ctx, cancel := a.ctx()
			err := a.client.UpdateRole(ctx, id, role.String())
			cancel()
			if err != nil {
				log.Errorf("Error updating role: %v", err)
				a.term.Alert("Could not update the role. Please try again.")
				continue
			}
			a.term.Alert("Role updated successfully!")
		case "back":
			return
		default:
			fmt.Fprintf(a.out, "unknown command %q, try 'help'\n", fields[0])
		}
	}
}

func (a *App) registerScreen() {
	if a.view(session.RoleAdmin) == nil {
		return
	}
	a.term.Title("Create Account")

	var account api.NewAccount
	var ok bool
	if account.FirstName, ok = a.prompt("First name: "); !ok {
		return
	}
	if account.LastName, ok = a.prompt("Last name: "); !ok {
		return
	}
	if account.Email, ok = a.prompt("Email: "); !ok {
		return
	}
	if account.Username, ok = a.prompt("Username: "); !ok {
		return
	}
	if account.Password, ok = a.prompt("Password: "); !ok {
		return
	}
	roleInput, ok := a.prompt("Role (Staff/Admin): ")
	if !ok {
		return
	}
	role := session.ParseRole(roleInput)
	if role == session.RoleUnknown {
		fmt.Fprintln(a.out, "unknown role, account not created")
		return
	}
	account.Role = role.String()

	ctx, cancel := a.ctx()
	defer cancel()
	if err := a.client.Register(ctx, account); err != nil {
		log.Errorf("Error creating account: %v", err)
		a.term.Alert("Could not create the account. Your input was discarded, start over.")
		return
	}
	a.term.Alert("Account created successfully!")
}
