package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/engpro/engpro-go/api"
	"github.com/engpro/engpro-go/app"
	"github.com/engpro/engpro-go/config"
	"github.com/engpro/engpro-go/core/course"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

type cliConfig struct {
	config.Config
	Args conf.Args
}

func run(logger *logrus.Logger) error {
	godotenv.Load()

	const prefix = "ENGPRO"
	var cfg cliConfig
	if help, err := conf.Parse(prefix, &cfg); err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logger.SetLevel(level)

	a, err := app.New(app.Config{
		API: api.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.API.Timeout,
			RPS:     cfg.API.RPS,
			Burst:   cfg.API.Burst,
		},
		StorageDir: cfg.Storage.Dir,
		Log:        logger,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.Hydrate(ctx); err != nil {
		logger.WithField("message", err).Warn("hydration failed, continuing logged out")
	}

	switch cmd := cfg.Args.Num(0); cmd {
	case "login":
		identifier, password := cfg.Args.Num(1), cfg.Args.Num(2)
		if identifier == "" || password == "" {
			return errors.New("usage: engpro login <identifier> <password>")
		}
		if err := a.Auth.Login(ctx, identifier, password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if u, ok := a.Auth.User(); ok {
			fmt.Printf("logged in as %s <%s> (%s)\n", u.Name, u.Email, u.Role)
		}
		return nil

	case "logout":
		return a.Auth.Logout(ctx)

	case "logout-all":
		return a.Auth.LogoutAll(ctx)

	case "whoami":
		u, ok := a.Auth.User()
		if !ok {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s <%s> (%s)\n", u.Name, u.Email, u.Role)
		return nil

	case "courses":
		pg, err := course.List(ctx, a.API, course.Query{
			Search: cfg.Args.Num(1),
			Status: course.Published,
		})
		if err != nil {
			return fmt.Errorf("listing courses: %w", err)
		}
		for _, c := range pg.Items {
			fmt.Printf("%s  %-40s %d %s\n", c.ID, c.Title, c.PriceCents, c.Currency)
		}
		fmt.Printf("page %d/%d (%d total)\n", pg.Page, pg.TotalPages, pg.Total)
		return nil

	case "cart":
		return runCart(ctx, a, cfg.Args)

	default:
		return fmt.Errorf("unknown command %q (login|logout|logout-all|whoami|courses|cart)", cmd)
	}
}

func runCart(ctx context.Context, a *app.App, args conf.Args) error {
	switch sub := args.Num(1); sub {
	case "", "list":
		for _, it := range a.Cart.Items() {
			fmt.Printf("%s  %-40s %d %s\n", it.Course.ID, it.Course.Title, it.Course.PriceCents, it.Course.Currency)
		}
		fmt.Printf("%d items, total %s\n", a.Cart.Count(), a.Cart.FormattedTotal())
		return nil

	case "add":
		if err := a.Cart.Add(ctx, args.Num(2)); err != nil {
			return fmt.Errorf("adding to cart: %w", err)
		}
		fmt.Printf("%d items in cart\n", a.Cart.Count())
		return nil

	case "remove":
		if err := a.Cart.Remove(ctx, args.Num(2)); err != nil {
			return fmt.Errorf("removing from cart: %w", err)
		}
		fmt.Printf("%d items in cart\n", a.Cart.Count())
		return nil

	case "clear":
		return a.Cart.Clear(ctx)

	default:
		return fmt.Errorf("unknown cart command %q (list|add|remove|clear)", sub)
	}
}
