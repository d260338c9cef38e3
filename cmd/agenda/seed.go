package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/and161185/agenda/internal/ident"
	"github.com/and161185/agenda/internal/result"
	"github.com/and161185/agenda/internal/service"
	"github.com/and161185/agenda/internal/validate"
)

func newSeedCmd(a *app) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run the demo flow: user, category, event, queries, cleanup",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return seed(cmd.Context(), svc, a.out, time.Now(), keep)
		}),
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "commit the demo records instead of deleting them")
	return cmd
}

// step prints a failed envelope and stops the demo.
func step[T any](w io.Writer, title string, res result.Result[T]) error {
	fmt.Fprintln(w, title)
	if !res.OK {
		return emit(w, res)
	}
	return nil
}

// seed runs the demo inside one transaction scope. Without keep every record
// it creates is deleted again before commit.
func seed(ctx context.Context, svc *service.Services, w io.Writer, now time.Time, keep bool) error {
	begin := svc.Begin(ctx)
	if !begin.OK {
		return emit(w, begin)
	}
	sc := begin.Value
	defer func() { _ = sc.Abort(ctx) }()

	u := sc.Users.Create(ctx, validate.Input{
		"name":     "Demo User",
		"email":    fmt.Sprintf("demo+%d@example.com", now.UnixNano()),
		"password": "demo123",
	})
	if err := step(w, "1. creating a user", u); err != nil {
		return err
	}
	owner := ident.String(u.Value.ID)
	fmt.Fprintf(w, "   user %s (%s)\n", u.Value.Name, owner)

	c := sc.Categories.Create(ctx, validate.Input{
		"name":        "Work",
		"color":       "#e74c3c",
		"description": "work related events",
		"ownerUserId": owner,
	})
	if err := step(w, "2. creating a category", c); err != nil {
		return err
	}
	fmt.Fprintf(w, "   category %s (%s)\n", c.Value.Name, c.Value.ID)

	start := tomorrowAt(now, 10)
	e := sc.Events.Create(ctx, validate.Input{
		"title":           "Project meeting",
		"description":     "project status",
		"startAt":         start,
		"endAt":           start.Add(2 * time.Hour),
		"location":        "Meeting room",
		"ownerUserId":     owner,
		"categoryId":      ident.String(c.Value.ID),
		"recurrence":      "weekly",
		"reminderMinutes": 30,
	})
	if err := step(w, "3. creating an event", e); err != nil {
		return err
	}
	eventID := ident.String(e.Value.ID)
	fmt.Fprintf(w, "   event %s (%s)\n", e.Value.Title, eventID)

	list := sc.Events.ListByOwner(ctx, owner)
	if err := step(w, "4. listing the user's events", list); err != nil {
		return err
	}
	fmt.Fprintf(w, "   found %d event(s)\n", len(list.Value))

	upd := sc.Events.Update(ctx, eventID, validate.Input{
		"title":       "Project meeting (updated)",
		"description": "project status and new tasks",
	})
	if err := step(w, "5. updating the event", upd); err != nil {
		return err
	}

	got := sc.Events.GetByID(ctx, eventID)
	if err := step(w, "6. reading the event back", got); err != nil {
		return err
	}
	fmt.Fprintf(w, "   %s: %s\n", got.Value.Title, *got.Value.Description)

	bad := sc.Events.Create(ctx, validate.Input{"description": "no title", "startAt": now, "ownerUserId": owner})
	fmt.Fprintln(w, "7. creating an event without a title")
	if !bad.OK {
		fmt.Fprintf(w, "   rejected: %s\n", bad.Error.Message)
	}

	if !keep {
		cleanup := []struct {
			title string
			run   func() result.Result[string]
		}{
			{"8. deleting the event", func() result.Result[string] { return sc.Events.Delete(ctx, eventID) }},
			{"9. deleting the user", func() result.Result[string] { return sc.Users.Delete(ctx, owner) }},
			{"10. deleting the category", func() result.Result[string] { return sc.Categories.Delete(ctx, ident.String(c.Value.ID)) }},
		}
		for _, del := range cleanup {
			res := del.run()
			if err := step(w, del.title, res); err != nil {
				return err
			}
			fmt.Fprintf(w, "   %s\n", res.Value)
		}
	}

	if res := sc.Commit(ctx); !res.OK {
		return emit(w, res)
	}
	fmt.Fprintln(w, "demo finished")
	return nil
}
