// Command gh is a CLI client for the gamehub HTTP API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// ---- config/token store ----

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func cfgDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "gamehub")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gamehub")
}

func tokenPath() string { return filepath.Join(cfgDir(), "token.json") }

func saveToken(tok string, exp time.Time) error {
	if err := os.MkdirAll(cfgDir(), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(tokenPath(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenFile{AccessToken: tok, ExpiresAt: exp})
}

func loadToken() (string, error) {
	b, err := os.ReadFile(tokenPath())
	if err != nil {
		return "", err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return "", errors.New("no valid token (login required)")
	}
	return tf.AccessToken, nil
}

func dropToken() error {
	err := os.Remove(tokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// ---- utils ----

func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func printRaw(b []byte) {
	if json.Valid(b) {
		printJSON(json.RawMessage(b))
		return
	}
	fmt.Println(string(b))
}

func usage() {
	fmt.Fprintf(os.Stderr, `gh CLI
Usage:
  gh -addr URL <cmd> [args]

Commands:
  version
  register   -e <email> -p <password> [-n <pseudo>]   (saves token)
  login      -e <email> -p <password>                 (saves token)
  logout
  me
  games      [-q key=value ...]
  game       -id <game id>
  media      -id <game id>
  filters
  favs
  fav-add    -file <snapshot.json | ->
  fav-rm     -id <game id>
  guides     [-game <id>] [-author <id>]
  guide      -id <guide id>
  guide-add  -title <t> -content <c> -game <id> [-game-name <name>]
  guide-edit -id <guide id> [-title <t>] [-content <c>]
  guide-rm   -id <guide id>
  profile    -id <user id>
`)
	os.Exit(2)
}

func need(ok bool, msg string) {
	if !ok {
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}

func authed(addr string) *apiClient {
	token, err := loadToken()
	if err != nil {
		fail(err)
	}
	return newAPI(addr, token)
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the server at -addr.
func main() {
	addr := flag.String("addr", "http://localhost:4000", "server base URL")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		out json.RawMessage
		err error
	)

	switch cmd {

	case "version":
		fmt.Printf("gh %s (%s)\n", version, buildDate)
		return

	case "register", "login":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		e := fs.String("e", "", "email")
		p := fs.String("p", "", "password")
		n := fs.String("n", "", "pseudo (register only)")
		_ = fs.Parse(args)
		need(*e != "" && *p != "", "need -e and -p")

		api := newAPI(*addr, "")
		var s session
		if cmd == "register" {
			s, err = api.register(ctx, *e, *p, *n)
		} else {
			s, err = api.login(ctx, *e, *p)
		}
		if err != nil {
			fail(err)
		}
		if err := saveToken(s.Token, s.ExpiresAt); err != nil {
			fail(err)
		}
		fmt.Printf("%s: %s (id %d), token valid until %s\n",
			s.Message, s.User.Pseudo, s.User.ID, s.ExpiresAt.Local().Format(time.RFC3339))
		return

	case "logout":
		out, err = newAPI(*addr, "").call(ctx, http.MethodPost, "/logout", nil, nil)
		if err == nil {
			err = dropToken()
		}

	case "me":
		out, err = authed(*addr).call(ctx, http.MethodGet, "/me", nil, nil)

	case "games":
		q := kvFlags{}
		fs := flag.NewFlagSet("games", flag.ExitOnError)
		fs.Var(q, "q", "query parameter key=value (repeatable)")
		_ = fs.Parse(args)
		out, err = newAPI(*addr, "").call(ctx, http.MethodGet, "/games", nil, q)

	case "game", "media":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		id := fs.Int64("id", 0, "game id")
		_ = fs.Parse(args)
		need(*id > 0, "need -id")
		path := "/games/" + strconv.FormatInt(*id, 10)
		if cmd == "media" {
			path += "/media"
		}
		out, err = newAPI(*addr, "").call(ctx, http.MethodGet, path, nil, nil)

	case "filters":
		out, err = newAPI(*addr, "").call(ctx, http.MethodGet, "/filters", nil, nil)

	case "favs":
		out, err = authed(*addr).call(ctx, http.MethodGet, "/favorites", nil, nil)

	case "fav-add":
		fs := flag.NewFlagSet("fav-add", flag.ExitOnError)
		file := fs.String("file", "", "game snapshot JSON (- for stdin)")
		_ = fs.Parse(args)
		need(*file != "", "need -file")
		raw, rerr := readAll(*file)
		if rerr != nil {
			fail(rerr)
		}
		need(json.Valid(raw), "snapshot is not valid JSON")
		out, err = authed(*addr).call(ctx, http.MethodPost, "/favorites", raw, nil)

	case "fav-rm":
		fs := flag.NewFlagSet("fav-rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "game id")
		_ = fs.Parse(args)
		need(*id > 0, "need -id")
		out, err = authed(*addr).call(ctx, http.MethodDelete, "/favorites/"+strconv.FormatInt(*id, 10), nil, nil)

	case "guides":
		fs := flag.NewFlagSet("guides", flag.ExitOnError)
		game := fs.Int64("game", 0, "filter by game id")
		author := fs.Int64("author", 0, "filter by author id")
		_ = fs.Parse(args)
		q := map[string]string{}
		if *game > 0 {
			q["gameId"] = strconv.FormatInt(*game, 10)
		}
		if *author > 0 {
			q["authorId"] = strconv.FormatInt(*author, 10)
		}
		out, err = newAPI(*addr, "").call(ctx, http.MethodGet, "/guides", nil, q)

	case "guide":
		fs := flag.NewFlagSet("guide", flag.ExitOnError)
		id := fs.Int64("id", 0, "guide id")
		_ = fs.Parse(args)
		need(*id > 0, "need -id")
		out, err = newAPI(*addr, "").call(ctx, http.MethodGet, "/guides/"+strconv.FormatInt(*id, 10), nil, nil)

	case "guide-add":
		fs := flag.NewFlagSet("guide-add", flag.ExitOnError)
		title := fs.String("title", "", "title")
		content := fs.String("content", "", "content (@file reads a file, @- stdin)")
		game := fs.Int64("game", 0, "game id")
		gameName := fs.String("game-name", "", "game name")
		_ = fs.Parse(args)
		need(*title != "" && *content != "" && *game > 0, "need -title, -content and -game")
		body := map[string]any{
			"title":    *title,
			"content":  loadContent(*content),
			"gameId":   *game,
			"gameName": *gameName,
		}
		out, err = authed(*addr).call(ctx, http.MethodPost, "/guides", body, nil)

	case "guide-edit":
		fs := flag.NewFlagSet("guide-edit", flag.ExitOnError)
		id := fs.Int64("id", 0, "guide id")
		title := fs.String("title", "", "new title")
		content := fs.String("content", "", "new content (@file reads a file, @- stdin)")
		_ = fs.Parse(args)
		need(*id > 0, "need -id")
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
		need(set["title"] || set["content"], "need -title or -content")
		c := *content
		if set["content"] {
			c = loadContent(c)
		}
		body := guidePatch(*title, c, set["title"], set["content"])
		out, err = authed(*addr).call(ctx, http.MethodPut, "/guides/"+strconv.FormatInt(*id, 10), body, nil)

	case "guide-rm":
		fs := flag.NewFlagSet("guide-rm", flag.ExitOnError)
		id := fs.Int64("id", 0, "guide id")
		_ = fs.Parse(args)
		need(*id > 0, "need -id")
		out, err = authed(*addr).call(ctx, http.MethodDelete, "/guides/"+strconv.FormatInt(*id, 10), nil, nil)

	case "profile":
		fs := flag.NewFlagSet("profile", flag.ExitOnError)
		id := fs.Int64("id", 0, "user id")
		_ = fs.Parse(args)
		need(*id > 0, "need -id")
		out, err = newAPI(*addr, "").call(ctx, http.MethodGet, "/users/"+strconv.FormatInt(*id, 10)+"/profile", nil, nil)

	default:
		usage()
	}

	if err != nil {
		fail(err)
	}
	printRaw(out)
}

// ---- helpers ----

// loadContent expands @path (or @- for stdin) into the file contents.
func loadContent(v string) string {
	if len(v) < 2 || v[0] != '@' {
		return v
	}
	b, err := readAll(v[1:])
	if err != nil {
		fail(err)
	}
	return string(b)
}

func fail(err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		fmt.Fprintf(os.Stderr, "server error: status=%d msg=%s\n", ae.Status, ae.Msg)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
