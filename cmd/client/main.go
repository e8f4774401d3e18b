package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"taskboard/internal/client"
	"taskboard/internal/model"
)

// readPassword is a seam so tests or scripts can bypass the terminal.
var readPassword = term.ReadPassword

func usage() {
	fmt.Fprintln(os.Stderr, `usage: taskboard <command> [args]

commands:
  signup           register a new account
  login            authenticate and save the session
  logout           discard the saved session
  whoami           show the authenticated user
  list             list todos, newest first
  add [flags] <title>   create a todo (-desc text, -due YYYY-MM-DD)
  done <id>        mark a todo completed
  rm <id>          delete a todo

The server address comes from TASKBOARD_URL (default http://localhost:8080).`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	baseURL := os.Getenv("TASKBOARD_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	store, err := client.DefaultSessionStore()
	if err != nil {
		log.Fatal(err)
	}
	api := client.New(baseURL)

	// Restore the saved session so authenticated commands work without a
	// fresh login.
	sess, err := store.Load()
	if err != nil {
		log.Fatal(err)
	}
	if sess != nil {
		api.SetToken(sess.Token)
	}

	ctx := context.Background()
	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "signup":
		runSignup(ctx, api, store)
	case "login":
		runLogin(ctx, api, store)
	case "logout":
		if err := store.Clear(); err != nil {
			log.Fatal(err)
		}
		fmt.Println("logged out")
	case "whoami":
		user, err := api.Me(ctx)
		checkAuth(err, store)
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
	case "list":
		runList(ctx, api, store)
	case "add":
		runAdd(ctx, api, store, args)
	case "done":
		runDone(ctx, api, store, args)
	case "rm":
		runRemove(ctx, api, store, args)
	default:
		usage()
		os.Exit(2)
	}
}

func runSignup(ctx context.Context, api *client.Client, store *client.SessionStore) {
	reader := bufio.NewReader(os.Stdin)
	name := promptLine(reader, "Name")
	email := promptLine(reader, "Email")
	password := promptPassword()

	res, err := api.Signup(ctx, email, password, name)
	if err != nil {
		log.Fatal(err)
	}
	saveSession(store, res)
	fmt.Printf("registered as %s\n", res.User.Email)
}

func runLogin(ctx context.Context, api *client.Client, store *client.SessionStore) {
	reader := bufio.NewReader(os.Stdin)
	email := promptLine(reader, "Email")
	password := promptPassword()

	res, err := api.Login(ctx, email, password)
	if err != nil {
		log.Fatal(err)
	}
	saveSession(store, res)
	fmt.Printf("logged in as %s\n", res.User.Email)
}

func runList(ctx context.Context, api *client.Client, store *client.SessionStore) {
	todos, err := api.Todos(ctx)
	checkAuth(err, store)
	if len(todos) == 0 {
		fmt.Println("no todos")
		return
	}
	for _, t := range todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s", mark, t.Title)
		if t.Deadline != nil {
			line += " (due " + t.Deadline.String() + ")"
		}
		fmt.Printf("%s\n    %s\n", line, t.ID)
	}
}

func runAdd(ctx context.Context, api *client.Client, store *client.SessionStore, args []string) {
	flags := flag.NewFlagSet("add", flag.ExitOnError)
	desc := flags.String("desc", "", "description")
	due := flags.String("due", "", "deadline (YYYY-MM-DD)")
	_ = flags.Parse(args)

	title := strings.TrimSpace(strings.Join(flags.Args(), " "))
	if title == "" {
		log.Fatal("add: title is required")
	}

	var deadline *model.Date
	if *due != "" {
		d, err := model.ParseDate(*due)
		if err != nil {
			log.Fatal(err)
		}
		deadline = &d
	}

	todo, err := api.CreateTodo(ctx, title, *desc, deadline)
	checkAuth(err, store)
	fmt.Printf("created %s\n", todo.ID)
}

func runDone(ctx context.Context, api *client.Client, store *client.SessionStore, args []string) {
	if len(args) != 1 {
		log.Fatal("done: expected one todo id")
	}
	completed := true
	todo, err := api.UpdateTodo(ctx, args[0], client.TodoUpdate{Completed: &completed})
	checkAuth(err, store)
	fmt.Printf("completed %q\n", todo.Title)
}

func runRemove(ctx context.Context, api *client.Client, store *client.SessionStore, args []string) {
	if len(args) != 1 {
		log.Fatal("rm: expected one todo id")
	}
	err := api.DeleteTodo(ctx, args[0])
	checkAuth(err, store)
	fmt.Println("deleted")
}

// checkAuth exits on error; a 401 also drops the stale session so the next
// run prompts for a fresh login.
func checkAuth(err error, store *client.SessionStore) {
	if err == nil {
		return
	}
	if client.IsUnauthorized(err) {
		_ = store.Clear()
		log.Fatal("session expired, run `taskboard login`")
	}
	log.Fatal(err)
}

func saveSession(store *client.SessionStore, res *client.AuthResult) {
	if err := store.Save(&client.Session{Token: res.Token, User: res.User}); err != nil {
		log.Warnf("could not save session: %v", err)
	}
}

func promptLine(reader *bufio.Reader, label string) string {
	fmt.Printf("%s: ", label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword() string {
	fmt.Print("Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatal(err)
	}
	return string(pw)
}
