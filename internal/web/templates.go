package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jaminalder/minimax-tic-tac-toe/internal/domain"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"iter": func(n int) []int {
			a := make([]int, n)
			for i := range a {
				a[i] = i
			}
			return a
		},
		"cellSymbol": func(c domain.Cell) string { return c.String() },
		"isEmpty":    func(c domain.Cell) bool { return c == domain.Empty },
		"add":        func(a, b int) int { return a + b },
		"mul":        func(a, b int) int { return a * b },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><p>You are X. The computer plays O.</p><form action="/game" method="post"><button>New game</button></form>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-container" hx-sse="swap:board">{{.BoardHTML}}</div>
</div>`))
	board := template.Must(template.New("board").Funcs(funcs()).Parse(boardTemplate))
	return &templates{game: game, board: board, index: index}
}

// renderTemplate executes t, or the named template from its set, into a
// buffer. Execution errors are logged and the partial output dropped.
func renderTemplate(log *slog.Logger, t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	var err error
	if name == "" {
		err = t.Execute(&buf, data)
	} else {
		err = t.ExecuteTemplate(&buf, name, data)
	}
	if err != nil {
		log.Error("render template", "template", t.Name(), "err", err)
		return nil
	}
	return buf.Bytes()
}

// boardView is the data behind the board fragment.
type boardView struct {
	ID       string
	Board    domain.Board
	Thinking bool
	Result   string
	Error    string
}

// Locked reports whether the human cannot click a cell right now.
func (v boardView) Locked() bool { return v.Thinking || v.Result != "" }

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{if .Result}}
  <div class="result">{{.Result}}</div>
  {{else if .Thinking}}
  <div class="thinking">Computer is thinking...</div>
  {{end}}
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}{{$cell := index $.Board $i}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        {{if or $.Locked (not (isEmpty $cell))}}
        <button type="submit" disabled>{{cellSymbol $cell}}</button>
        {{else}}
        <button type="submit">{{cellSymbol $cell}}</button>
        {{end}}
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">New game</button>
  </form>
</div>
`

// ensurePlayerCookie returns the caller's player ID, minting one if needed.
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
		return c.Value
	}
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
