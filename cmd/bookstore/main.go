// Command bookstore is a terminal client for the BookStore recommendation
// service. Each subcommand maps to one screen of the mobile app: it
// dispatches an intent to a feature slice and renders the resulting state.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"bookstore/internal/app"
	"bookstore/internal/config"
	"bookstore/internal/session"
	"bookstore/internal/state"
	"bookstore/internal/util"
	"bookstore/pkg/domain"
)

func main() {
	cfg, err := config.Load(os.Getenv("BOOKSTORE_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.InitLogger(cfg.LogLevel)

	appCfg, err := app.FromFileConfig(cfg)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	client, err := app.New(appCfg)
	if err != nil {
		log.Fatalf("failed to init client: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(context.Background(), client, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if state.IsPrecondition(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, client *app.App, command string, args []string) error {
	switch command {
	case "register":
		return runRegister(ctx, client, args)
	case "login":
		return runLogin(ctx, client, args)
	case "logout":
		client.Auth.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return runWhoami(client)
	case "feed":
		return runFeed(ctx, client)
	case "book":
		return runBook(ctx, client, args)
	case "add":
		return runAdd(ctx, client, args)
	case "profile":
		return runProfile(ctx, client)
	case "delete":
		return runDelete(ctx, client, args)
	case "update-profile":
		return runUpdateProfile(ctx, client, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runRegister(ctx context.Context, client *app.App, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if err := client.Auth.Register(ctx, *username, *email, *password); err != nil {
		return err
	}
	fmt.Printf("registered %s — run `bookstore login` to sign in\n", *username)
	return nil
}

func runLogin(ctx context.Context, client *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	if err := client.Auth.Login(ctx, *email, *password); err != nil {
		return err
	}
	user := client.Auth.CurrentUser()
	fmt.Printf("welcome back, %s\n", user.Username)
	return nil
}

func runWhoami(client *app.App) error {
	user := client.Auth.CurrentUser()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	if info, err := session.InspectToken(client.Auth.Token()); err == nil {
		if !info.ExpiresAt.IsZero() {
			fmt.Printf("token expires %s\n", info.ExpiresAt.Local().Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runFeed(ctx context.Context, client *app.App) error {
	if err := client.Feed.FetchAllBooks(ctx); err != nil {
		return err
	}
	books := client.Feed.Books()
	if len(books) == 0 {
		fmt.Println("no recommendations yet")
		return nil
	}
	for _, book := range books {
		printBookLine(book)
	}
	return nil
}

func runBook(ctx context.Context, client *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookstore book <id>")
	}
	if err := client.Feed.FetchBookByID(ctx, args[0]); err != nil {
		return err
	}
	book := client.Feed.Book()
	fmt.Printf("%s %s\n", stars(book.Rating), book.Title)
	if book.Author.Username != "" {
		fmt.Printf("recommended by %s\n", book.Author.Username)
	}
	if book.Caption != "" {
		fmt.Println(book.Caption)
	}
	if book.Image != "" {
		fmt.Println(book.Image)
	}
	return nil
}

func runAdd(ctx context.Context, client *app.App, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "book title")
	caption := fs.String("caption", "", "why you recommend it")
	rating := fs.Int("rating", 0, "rating from 1 to 5")
	image := fs.String("image", "", "path to a cover photo")
	fs.Parse(args)

	book, err := client.Bridge.SubmitBook(ctx, state.SubmitInput{
		Title:     *title,
		Caption:   *caption,
		Rating:    *rating,
		ImagePath: *image,
	})
	if err != nil {
		return err
	}
	client.Submit.Clear()
	fmt.Printf("posted %q %s\n", book.Title, stars(book.Rating))
	return nil
}

func runProfile(ctx context.Context, client *app.App) error {
	if err := client.Profile.FetchUserWithBooks(ctx); err != nil {
		return err
	}
	user := client.Profile.User()
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	books := client.Profile.Books()
	fmt.Printf("%d recommendation(s)\n", len(books))
	for _, book := range books {
		printBookLine(book)
	}
	return nil
}

func runDelete(ctx context.Context, client *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: bookstore delete <id>")
	}
	if err := client.Bridge.DeleteBook(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("deleted; lists reloaded from the server")
	return nil
}

func runUpdateProfile(ctx context.Context, client *app.App, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	image := fs.String("image", "", "path to a new profile photo (optional)")
	fs.Parse(args)

	if err := client.Auth.UpdateProfile(ctx, *username, *email, *image); err != nil {
		return err
	}
	user := client.Auth.CurrentUser()
	fmt.Printf("profile updated: %s <%s>\n", user.Username, user.Email)
	return nil
}

func printBookLine(book domain.Book) {
	author := book.Author.Username
	if author == "" {
		author = "unknown"
	}
	fmt.Printf("%s  %-30s  by %-15s  %s\n", stars(book.Rating), book.Title, author, book.ID)
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return "[" + strings.Repeat("*", rating) + strings.Repeat(".", 5-rating) + "]"
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bookstore <command> [flags]

commands:
  register        create an account (-username -email -password)
  login           sign in (-email -password)
  logout          clear the stored session
  whoami          show the current session
  feed            browse the community feed
  book <id>       show one recommendation
  add             post a recommendation (-title -caption -rating -image)
  profile         show your account and recommendations
  delete <id>     remove one of your recommendations
  update-profile  change your account (-username -email [-image])`)
}
