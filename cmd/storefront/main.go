package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/jharlow/go-storefront-client/api"
	"github.com/jharlow/go-storefront-client/cart"
	"github.com/jharlow/go-storefront-client/catalog"
	"github.com/jharlow/go-storefront-client/internal/config"
	"github.com/jharlow/go-storefront-client/internal/keyval"
	"github.com/jharlow/go-storefront-client/internal/utils"
	"github.com/jharlow/go-storefront-client/prefs"
	"github.com/jharlow/go-storefront-client/rating"
	"github.com/jharlow/go-storefront-client/session"
	"github.com/jharlow/go-storefront-client/token/filestore"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	logger := newLogger(c)

	kv, err := keyval.New(c.GetDataFolder())
	if err != nil {
		return err
	}
	store, err := filestore.New(kv, filestore.WithLogger(logger))
	if err != nil {
		return err
	}
	client, err := api.NewClient(c.GetBaseURL(),
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: c.GetHTTPTimeout()}),
	)
	if err != nil {
		return err
	}
	manager, err := session.NewManager(client, store, session.WithLogger(logger))
	if err != nil {
		return err
	}
	client.SetTokenSource(manager.AccessToken)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	manager.Bootstrap(ctx)

	return dispatch(ctx, os.Args[1:], deps{
		config:  c,
		kv:      kv,
		client:  client,
		manager: manager,
	})
}

type deps struct {
	config  config.Config
	kv      *keyval.Store
	client  *api.Client
	manager *session.Manager
}

func dispatch(ctx context.Context, args []string, d deps) error {
	if len(args) == 0 {
		return usage()
	}

	switch args[0] {
	case "login":
		return cmdLogin(ctx, args[1:], d)
	case "logout":
		d.manager.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		return cmdWhoami(d)
	case "products":
		return cmdProducts(ctx, args[1:], d)
	case "categories":
		return cmdCategories(ctx, d)
	case "rate":
		return cmdRate(ctx, args[1:], d)
	case "cart":
		return cmdCart(ctx, args[1:], d)
	case "lang":
		return cmdLang(args[1:], d)
	default:
		return usage()
	}
}

func usage() error {
	fmt.Println("usage: storefront <login|logout|whoami|products|categories|rate|cart|lang> [flags]")
	return nil
}

func cmdLogin(ctx context.Context, args []string, d deps) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := d.manager.Login(ctx, session.Credentials{Username: *username, Password: *password}); err != nil {
		return err
	}
	return cmdWhoami(d)
}

func cmdWhoami(d deps) error {
	snap := d.manager.Snapshot()
	if !snap.Authenticated() {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("Signed in as %s (%s)\n", snap.User.FullName(), snap.User.Username)
	if snap.User.Phone != "" {
		fmt.Printf("Phone: %s\n", snap.User.Phone)
	}
	if lastLogin := utils.Value(snap.User.LastLogin); !lastLogin.IsZero() {
		fmt.Printf("Last login: %s\n", lastLogin.Format(time.RFC1123))
	}
	return nil
}

func cmdProducts(ctx context.Context, args []string, d deps) error {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	page := fs.Int("page", 1, "page number")
	category := fs.String("category", "", "category filter")
	search := fs.String("search", "", "search term")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := catalog.NewClient(d.client)
	if err != nil {
		return err
	}
	result, err := client.Products(ctx, catalog.Query{Page: *page, Category: *category, Search: *search})
	if err != nil {
		return err
	}

	for _, p := range result.Items {
		fmt.Printf("%6d  %-40s  %8.2f\n", p.ID, p.Title, p.Price)
	}
	fmt.Printf("Page %d of %d (%d products)\n", result.Page, result.TotalPages(), result.TotalCount)
	return nil
}

func cmdCategories(ctx context.Context, d deps) error {
	client, err := catalog.NewClient(d.client)
	if err != nil {
		return err
	}
	categories, err := client.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%6d  %s\n", c.ID, c.Name)
	}
	return nil
}

func cmdRate(ctx context.Context, args []string, d deps) error {
	fs := flag.NewFlagSet("rate", flag.ExitOnError)
	productID := fs.Int64("product", 0, "product id")
	score := fs.Int("score", 0, "score 1-5")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := rating.NewClient(d.client)
	if err != nil {
		return err
	}
	summary, err := client.Rate(ctx, *productID, *score)
	if err != nil {
		return err
	}
	fmt.Printf("Rated. Average now %.1f over %d ratings.\n", summary.Average, summary.Count)
	return nil
}

func cmdCart(ctx context.Context, args []string, d deps) error {
	fs := flag.NewFlagSet("cart", flag.ExitOnError)
	id := fs.String("id", "", "cart id (empty to create one)")
	product := fs.Int64("add", 0, "product id to add")
	quantity := fs.Int("qty", 1, "quantity")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := cart.NewClient(d.client)
	if err != nil {
		return err
	}

	current := &cart.Cart{ID: *id}
	if *id == "" {
		if current, err = client.Create(ctx); err != nil {
			return err
		}
		fmt.Printf("Created cart %s\n", current.ID)
	} else if current, err = client.Get(ctx, *id); err != nil {
		return err
	}

	if *product != 0 {
		patch := cart.MergeAdds(current.Items, []cart.Item{{ProductID: *product, Quantity: *quantity}})
		if current, err = client.Apply(ctx, current.ID, patch); err != nil {
			return err
		}
	}

	for _, item := range current.Items {
		fmt.Printf("%6d  x%d\n", item.ProductID, item.Quantity)
	}
	return nil
}

func cmdLang(args []string, d deps) error {
	p, err := prefs.New(d.kv)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Println(p.Language())
		return nil
	}
	if err := p.SetLanguage(args[0]); err != nil {
		return err
	}
	fmt.Printf("Language set to %s\n", args[0])
	return nil
}

func newLogger(c config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
