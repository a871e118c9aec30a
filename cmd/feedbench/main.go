package main

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/api/templates"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/pagecache"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/cache"
	"github.com/d60-Lab/yatube/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func main() {
	ctx := context.Background()
	cfg := must(config.Load())

	// params
	AUTHORS := envInt("AUTHORS", 500)    // authors in the system
	POSTS := envInt("POSTS", 20)         // posts per author
	GROUPS := envInt("GROUPS", 20)       // groups
	FOLLOWS := envInt("FOLLOWS", 50)     // authors the reader follows
	GFOLLOWS := envInt("GFOLLOWS", 3)    // groups the reader follows
	REQUESTS := envInt("REQUESTS", 2000) // requests per scenario

	var db = must(database.OpenMemory("feedbench"))
	if os.Getenv("USE_CONFIG_DB") != "" {
		db = must(database.InitDB(cfg))
		mustDo(database.AutoMigrate(db))
		// clean tables for a reproducible run (ok for local bench)
		mustDo(db.Exec("DELETE FROM comments").Error)
		mustDo(db.Exec("DELETE FROM subscriptions").Error)
		mustDo(db.Exec("DELETE FROM posts").Error)
		mustDo(db.Exec(`DELETE FROM "groups"`).Error)
		mustDo(db.Exec("DELETE FROM users").Error)
	}

	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	posts := repository.NewPostRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	feed := service.NewFeedService(posts, users, groups, subs, cfg.Feed.PageSize)

	fmt.Println("Setting up test data...")
	reader := &model.User{Username: "reader", Password: "p"}
	mustDo(users.Create(ctx, reader))

	gs := make([]*model.Group, GROUPS)
	for i := range gs {
		gs[i] = &model.Group{Title: fmt.Sprintf("Group %d", i), Slug: fmt.Sprintf("group-%d", i)}
		mustDo(groups.Create(ctx, gs[i]))
	}

	rng := rand.New(rand.NewSource(42))
	authors := make([]model.User, AUTHORS)
	for i := range authors {
		id := uuid.NewString()
		authors[i] = model.User{ID: id, Username: "a" + id[:8], Password: "p"}
	}
	mustDo(db.CreateInBatches(&authors, 500).Error)

	base := time.Now().Add(-time.Duration(AUTHORS*POSTS) * time.Second)
	rows := make([]model.Post, 0, AUTHORS*POSTS)
	for i := 0; i < AUTHORS*POSTS; i++ {
		p := model.Post{
			Text:      fmt.Sprintf("post %d", i),
			AuthorID:  authors[rng.Intn(len(authors))].ID,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if rng.Intn(3) == 0 {
			p.GroupID = &gs[rng.Intn(len(gs))].ID
		}
		rows = append(rows, p)
	}
	mustDo(db.Omit("Author", "Group", "Comments").CreateInBatches(&rows, 1000).Error)

	for _, i := range rng.Perm(len(authors))[:min(FOLLOWS, len(authors))] {
		mustDo(subs.Create(ctx, reader.ID, model.KindAuthor, authors[i].ID))
	}
	for _, i := range rng.Perm(len(gs))[:min(GFOLLOWS, len(gs))] {
		mustDo(subs.Create(ctx, reader.ID, model.KindGroup, gs[i].ID))
	}
	total := must(posts.Count(ctx, repository.PostFilter{SubscriberID: reader.ID}))
	fmt.Printf("Test data ready: %d posts, reader sees %d in subscriptions\n", len(rows), total)

	pages := makePages(rng, REQUESTS, 10)

	subsDur := run(pages, func(page string) error {
		_, err := feed.Subscriptions(ctx, reader.ID, page)
		return err
	})

	tmpl := templates.Must()
	render := func(page string) func(context.Context) ([]byte, error) {
		return func(ctx context.Context) ([]byte, error) {
			fp, err := feed.Home(ctx, page)
			if err != nil {
				return nil, err
			}
			var buf bytes.Buffer
			err = tmpl.ExecuteTemplate(&buf, "includes/feed.html", map[string]interface{}{"Posts": fp.Posts, "Page": fp.Page})
			return buf.Bytes(), err
		}
	}

	homeDur := run(pages, func(page string) error {
		_, err := render(page)(ctx)
		return err
	})

	fmt.Printf("\nFeed latency (%d requests, %d posts)\n", REQUESTS, len(rows))
	report("Subscription feed", subsDur)
	report("Home (no cache)", homeDur)

	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		fmt.Printf("%-20s skipped: %v\n", "Home (redis cache)", err)
		return
	}
	defer client.Close()

	pc := pagecache.New(client, "feedbench_index_page", time.Minute)
	_, _ = pc.Clear(ctx)
	cachedDur := run(pages, func(page string) error {
		_, err := pc.Fetch(ctx, page, render(page))
		return err
	})
	report("Home (redis cache)", cachedDur)
	c := pc.Counters()
	fmt.Printf("%-20s hits=%d misses=%d errors=%d\n", "", c.Hits, c.Misses, c.Errors)
	_, _ = pc.Clear(ctx)
}

func makePages(rng *rand.Rand, n, maxPage int) []string {
	out := make([]string, n)
	for i := range out {
		// skewed towards the first pages
		p := int(math.Abs(rng.NormFloat64()*2)) + 1
		if p > maxPage {
			p = maxPage
		}
		out[i] = strconv.Itoa(p)
	}
	return out
}

func run(pages []string, call func(string) error) []time.Duration {
	out := make([]time.Duration, 0, len(pages))
	for _, p := range pages {
		start := time.Now()
		mustDo(call(p))
		out = append(out, time.Since(start))
	}
	return out
}

func report(name string, ds []time.Duration) {
	fmt.Printf("%-20s avg=%v p50=%v p95=%v p99=%v\n", name, avg(ds), pct(ds, 0.50), pct(ds, 0.95), pct(ds, 0.99))
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
