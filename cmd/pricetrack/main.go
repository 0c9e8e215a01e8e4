// Package main is the pricetrack CLI, a thin front end over the API client.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"pricetrack/client"
	"pricetrack/internal/config"
	"pricetrack/model"
	"pricetrack/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: pricetrack <command> [flags]

commands:
  register   -username -email -password [-first] [-last]
  login      -username -password
  logout
  me
  products   list|get|add|rm|refresh ...
  prices     history|drops|trends ...
  alerts     list|add|rm ...
  search     -q <query>
  health`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cfg := config.LoadClient()
	store, err := session.NewFileStore(cfg.TokenFile)
	if err != nil {
		fatal(err)
	}
	c, err := client.New(cfg.APIBaseURL,
		client.WithSession(store),
		client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)
	if err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &app{c: c, store: store}
	cmd, args := os.Args[1], os.Args[2:]
	if err := app.run(ctx, cmd, args); err != nil {
		// a rejected credential is stale; drop it so the next login starts clean
		if client.ErrKind(err) == client.KindUnauthorized {
			_ = store.Clear()
			fmt.Fprintln(os.Stderr, "session expired, run `pricetrack login` again")
		}
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "pricetrack:", err)
	os.Exit(1)
}

type app struct {
	c     *client.Client
	store *session.FileStore
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.register(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "me":
		u, err := a.c.Me(ctx)
		if err != nil {
			return err
		}
		return printJSON(u)
	case "products":
		return a.products(ctx, args)
	case "prices":
		return a.prices(ctx, args)
	case "alerts":
		return a.alerts(ctx, args)
	case "search":
		return a.search(ctx, args)
	case "health":
		if err := a.c.Health(ctx); err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	default:
		usage()
		return nil
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	_ = fs.Parse(args)
	tr, err := a.c.Register(ctx, model.UserCreate{
		Username:  *username,
		Email:     *email,
		Password:  *password,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return err
	}
	fmt.Printf("registered as %s (id %d)\n", tr.User.Username, tr.User.ID)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)
	tr, err := a.c.Login(ctx, model.Credentials{Username: *username, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s, token expires in %ds\n", tr.User.Username, tr.ExpiresIn)
	return nil
}

func parseID(fs *flag.FlagSet) (int64, error) {
	if fs.NArg() < 1 {
		return 0, errors.New("missing id argument")
	}
	return strconv.ParseInt(fs.Arg(0), 10, 64)
}

func (a *app) products(ctx context.Context, args []string) error {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("products list", flag.ExitOnError)
		search := fs.String("search", "", "free-text search")
		platform := fs.String("platform", "", "platform filter")
		category := fs.String("category", "", "category filter")
		brand := fs.String("brand", "", "brand filter")
		tracking := fs.Bool("tracking", false, "only tracked products")
		skip := fs.Int("skip", 0, "offset")
		limit := fs.Int("limit", 100, "page size")
		_ = fs.Parse(rest)
		params := client.ProductListParams{
			Search:   *search,
			Platform: model.Platform(*platform),
			Category: *category,
			Brand:    *brand,
			Skip:     client.Int(*skip),
			Limit:    client.Int(*limit),
		}
		if *tracking {
			params.IsTracking = client.Bool(true)
		}
		list, err := a.c.ListProducts(ctx, params)
		if err != nil {
			return err
		}
		fmt.Printf("%d of %d products\n", len(list.Items), list.Total)
		return printJSON(list.Items)
	case "get":
		fs := flag.NewFlagSet("products get", flag.ExitOnError)
		_ = fs.Parse(rest)
		id, err := parseID(fs)
		if err != nil {
			return err
		}
		p, err := a.c.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		return printJSON(p)
	case "add":
		fs := flag.NewFlagSet("products add", flag.ExitOnError)
		name := fs.String("name", "", "product name")
		platform := fs.String("platform", "", "platform")
		url := fs.String("url", "", "product URL")
		category := fs.String("category", "", "category")
		brand := fs.String("brand", "", "brand")
		currency := fs.String("currency", "USD", "currency code")
		_ = fs.Parse(rest)
		p, err := a.c.CreateProduct(ctx, model.ProductCreate{
			Name:       *name,
			Platform:   model.Platform(*platform),
			ProductURL: *url,
			Category:   *category,
			Brand:      *brand,
			Currency:   *currency,
		})
		if err != nil {
			return err
		}
		fmt.Printf("tracking product %d\n", p.ID)
		return printJSON(p)
	case "rm":
		fs := flag.NewFlagSet("products rm", flag.ExitOnError)
		_ = fs.Parse(rest)
		id, err := parseID(fs)
		if err != nil {
			return err
		}
		if err := a.c.DeleteProduct(ctx, id); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	case "refresh":
		fs := flag.NewFlagSet("products refresh", flag.ExitOnError)
		_ = fs.Parse(rest)
		id, err := parseID(fs)
		if err != nil {
			return err
		}
		if err := a.c.RefreshProduct(ctx, id); err != nil {
			return err
		}
		fmt.Println("refresh scheduled")
		return nil
	default:
		usage()
		return nil
	}
}

func (a *app) prices(ctx context.Context, args []string) error {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "history":
		fs := flag.NewFlagSet("prices history", flag.ExitOnError)
		days := fs.Int("days", 30, "history window in days")
		_ = fs.Parse(rest)
		id, err := parseID(fs)
		if err != nil {
			return err
		}
		h, err := a.c.PriceHistory(ctx, id, client.PriceHistoryParams{Days: client.Int(*days)})
		if err != nil {
			return err
		}
		return printJSON(h)
	case "drops":
		drops, err := a.c.PriceDrops(ctx, client.AggregateParams{})
		if err != nil {
			return err
		}
		return printJSON(drops)
	case "trends":
		trends, err := a.c.PopularTrends(ctx, client.AggregateParams{})
		if err != nil {
			return err
		}
		return printJSON(trends)
	default:
		usage()
		return nil
	}
}

func (a *app) alerts(ctx context.Context, args []string) error {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "list":
		fs := flag.NewFlagSet("alerts list", flag.ExitOnError)
		user := fs.Int64("user", 0, "owner user id (required)")
		_ = fs.Parse(rest)
		alerts, err := a.c.ListAlerts(ctx, client.AlertListParams{UserID: *user})
		if err != nil {
			return err
		}
		return printJSON(alerts)
	case "add":
		fs := flag.NewFlagSet("alerts add", flag.ExitOnError)
		user := fs.Int64("user", 0, "owner user id (required)")
		product := fs.Int64("product", 0, "product id")
		typ := fs.String("type", string(model.AlertPriceDrop), "price_drop, price_increase, or target_price")
		target := fs.Float64("target", 0, "target price (target_price alerts)")
		pct := fs.Float64("pct", 0, "threshold percentage (price change alerts)")
		_ = fs.Parse(rest)
		req := model.PriceAlertCreate{
			ProductID:   *product,
			AlertType:   model.AlertType(*typ),
			NotifyEmail: true,
		}
		if *target > 0 {
			req.TargetPrice = client.Float64(*target)
		}
		if *pct > 0 {
			req.ThresholdPercentage = client.Float64(*pct)
		}
		al, err := a.c.CreateAlert(ctx, *user, req)
		if err != nil {
			return err
		}
		fmt.Printf("alert %d created\n", al.ID)
		return printJSON(al)
	case "rm":
		fs := flag.NewFlagSet("alerts rm", flag.ExitOnError)
		_ = fs.Parse(rest)
		id, err := parseID(fs)
		if err != nil {
			return err
		}
		if err := a.c.DeleteAlert(ctx, id); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	default:
		usage()
		return nil
	}
}

func (a *app) search(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	q := fs.String("q", "", "search query")
	_ = fs.Parse(args)
	resp, err := a.c.Search(ctx, model.SearchQuery{Query: *q})
	if err != nil {
		return err
	}
	return printJSON(resp.Results)
}
