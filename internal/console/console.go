// Package console is a line-oriented REPL over the matching core for local debugging.
// Plain lines behave like keystrokes in a search box: each one schedules a debounced
// suggestion lookup and only the last line of a burst is answered.
package console

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

	"go.uber.org/zap"

	"github.com/kailas-cloud/tastematch/internal/debounce"
	"github.com/kailas-cloud/tastematch/internal/domain"
	"github.com/kailas-cloud/tastematch/internal/domain/category"
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/logger"
	recommenduc "github.com/kailas-cloud/tastematch/internal/usecase/recommend"
	searchuc "github.com/kailas-cloud/tastematch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/tastematch/internal/usecase/suggest"
)

const helpText = `commands:
  <text>          suggest as you type (debounced)
  /search <text>  ranked search
  /rec <id>       recommendations for an entity id
  /cat <name>     switch category (songs, movies)
  /help           this text
  /quit           exit`

// Console reads commands from an input stream and writes results to an output stream.
type Console struct {
	search    *searchuc.Service
	suggest   *suggestuc.Service
	recommend *recommenduc.Service
	debouncer *debounce.Debouncer
	logger    *zap.Logger

	mu       sync.Mutex
	out      io.Writer
	category category.Category
}

// New creates a console starting on the songs category.
func New(
	search *searchuc.Service,
	suggest *suggestuc.Service,
	recommend *recommenduc.Service,
	delay time.Duration,
	log *zap.Logger,
) *Console {
	return &Console{
		search:    search,
		suggest:   suggest,
		recommend: recommend,
		debouncer: debounce.New(delay),
		logger:    log,
		category:  category.Songs,
	}
}

// Run processes in line by line until EOF, /quit or ctx cancellation.
// A suggestion still pending at EOF is delivered before Run returns, and
// Run never returns while a fired suggestion is still printing.
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	defer c.debouncer.Wait()
	ctx = logger.ContextWithLogger(ctx, c.logger)
	c.mu.Lock()
	c.out = out
	c.mu.Unlock()

	c.printf("tastematch console, type /help for commands\n")
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			c.debouncer.Cancel()
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !c.handleLine(ctx, line) {
			c.debouncer.Cancel()
			return nil
		}
	}
	c.debouncer.Flush()
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// handleLine dispatches one line. Returns false when the console should exit.
func (c *Console) handleLine(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, "/") {
		cat := c.currentCategory()
		c.debouncer.Schedule(func() { c.showSuggestions(ctx, cat, line) })
		return true
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	c.debouncer.Cancel()

	switch strings.ToLower(cmd) {
	case "quit", "exit", "q":
		return false
	case "help", "h":
		c.printf("%s\n", helpText)
	case "cat", "category":
		c.switchCategory(arg)
	case "search", "s":
		c.showSearch(ctx, arg)
	case "rec", "recommend":
		c.showRecommendations(ctx, arg)
	default:
		c.printf("unknown command /%s, type /help\n", cmd)
	}
	return true
}

func (c *Console) currentCategory() category.Category {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

func (c *Console) switchCategory(arg string) {
	cat, err := category.Parse(arg)
	if err != nil {
		c.printf("unknown category %q, use songs or movies\n", arg)
		return
	}
	c.mu.Lock()
	c.category = cat
	c.mu.Unlock()
	c.printf("category: %s\n", cat)
}

func (c *Console) showSuggestions(ctx context.Context, cat category.Category, text string) {
	ctx = logger.With(ctx, zap.String("category", string(cat)))
	out, err := c.suggest.Suggest(ctx, cat, text)
	if err != nil {
		c.printError(err)
		return
	}
	if !out.Visible {
		return
	}
	if len(out.Items) == 0 {
		c.printf("no suggestions for %q\n", text)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "suggestions for %q:\n", text)
	for i := range out.Items {
		fmt.Fprintf(&b, "  > %s\n", describe(&out.Items[i]))
	}
	c.printf("%s", b.String())
}

func (c *Console) showSearch(ctx context.Context, text string) {
	cat := c.currentCategory()
	results, err := c.search.Search(ctx, cat, text)
	if err != nil {
		c.printError(err)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s for %q:\n", len(results), cat, strings.TrimSpace(text))
	for i := range results {
		fmt.Fprintf(&b, "%2d. %-60s score %3d\n", i+1, describe(&results[i].Entity), results[i].Score)
	}
	c.printf("%s", b.String())
}

func (c *Console) showRecommendations(ctx context.Context, arg string) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		c.printf("usage: /rec <id>\n")
		return
	}
	cat := c.currentCategory()
	res, err := c.recommend.Recommend(ctx, cat, id)
	if err != nil {
		c.printError(err)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "because you picked %s:\n", describe(&res.Selected))
	for i := range res.Recommendations {
		r := &res.Recommendations[i]
		fmt.Fprintf(&b, "%2d. %-60s %3d%% match\n", i+1, describe(&r.Entity), r.MatchPercent())
	}
	c.printf("%s", b.String())
}

func (c *Console) printError(err error) {
	var nf *domain.NotFoundError
	switch {
	case errors.As(err, &nf) && len(nf.Samples) > 0:
		c.printf("no match for %q, try: %s\n", nf.Query, strings.Join(nf.Samples, ", "))
	case domain.Code(err) == domain.CodeInternal:
		c.logger.Error("console command failed", zap.Error(err))
		c.printf("error: internal error\n")
	default:
		c.printf("error: %v\n", err)
	}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out == nil {
		return
	}
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func describe(e *entity.Entity) string {
	s := fmt.Sprintf("[%d] %s - %s", e.ID(), e.Title(), e.Creator())
	if e.Year() > 0 {
		s += fmt.Sprintf(" (%d)", e.Year())
	}
	return s
}
