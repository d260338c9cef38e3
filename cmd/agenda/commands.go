package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and161185/agenda/internal/migrate"
	"github.com/and161185/agenda/internal/service"
)

type runFunc func(cmd *cobra.Command, args []string, svc *service.Services) error

// withServices connects lazily so that help and migrate never touch the pool.
func (a *app) withServices(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		svc, err := a.services(cmd.Context())
		if err != nil {
			return err
		}
		return fn(cmd, args, svc)
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or roll back one) schema migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if down {
				if err := migrate.Down(cmd.Context(), a.cfg.Storage.DSN, a.log); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "rolled back one migration")
				return nil
			}
			if err := migrate.Up(cmd.Context(), a.cfg.Storage.DSN, a.log); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the latest migration")
	return cmd
}

var userFields = []field{
	{"name", "name"},
	{"email", "email"},
	{"password", "password"},
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "user", Short: "Manage users"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Users.Create(cmd.Context(), inputFrom(cmd, userFields...)))
		}),
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Users.Update(cmd.Context(), args[0], inputFrom(cmd, userFields...)))
		}),
	}
	for _, c := range []*cobra.Command{create, update} {
		c.Flags().String("name", "", "display name")
		c.Flags().String("email", "", "unique email")
		c.Flags().String("password", "", "password, stored as given")
	}

	var email string
	get := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a user by id or --email",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			if email != "" {
				return emit(a.out, svc.Users.GetByEmail(cmd.Context(), email))
			}
			if len(args) == 0 {
				return errors.New("user id or --email is required")
			}
			return emit(a.out, svc.Users.GetByID(cmd.Context(), args[0]))
		}),
	}
	get.Flags().StringVar(&email, "email", "", "look the user up by email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Users.List(cmd.Context()))
		}),
	}
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Users.Delete(cmd.Context(), args[0]))
		}),
	}

	cmd.AddCommand(create, get, list, update, del)
	return cmd
}

var categoryFields = []field{
	{"name", "name"},
	{"color", "color"},
	{"description", "description"},
	{"owner", "ownerUserId"},
}

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "category", Short: "Manage categories"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Categories.Create(cmd.Context(), inputFrom(cmd, categoryFields...)))
		}),
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Categories.Update(cmd.Context(), args[0], inputFrom(cmd, categoryFields...)))
		}),
	}
	for _, c := range []*cobra.Command{create, update} {
		c.Flags().String("name", "", "category name")
		c.Flags().String("color", "", "hex color, defaults to #3498db")
		c.Flags().String("description", "", "free text")
		c.Flags().String("owner", "", "owner user id")
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Categories.GetByID(cmd.Context(), args[0]))
		}),
	}

	var owner string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the categories of a user",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Categories.ListByOwner(cmd.Context(), owner))
		}),
	}
	list.Flags().StringVar(&owner, "owner", "", "owner user id")
	_ = list.MarkFlagRequired("owner")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Categories.Delete(cmd.Context(), args[0]))
		}),
	}

	cmd.AddCommand(create, get, list, update, del)
	return cmd
}

var eventFields = []field{
	{"title", "title"},
	{"description", "description"},
	{"start", "startAt"},
	{"end", "endAt"},
	{"location", "location"},
	{"owner", "ownerUserId"},
	{"category", "categoryId"},
	{"recurrence", "recurrence"},
	{"reminder", "reminderMinutes"},
}

func newEventCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "event", Short: "Manage events"}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an event",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Events.Create(cmd.Context(), inputFrom(cmd, eventFields...)))
		}),
	}
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an event",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Events.Update(cmd.Context(), args[0], inputFrom(cmd, eventFields...)))
		}),
	}
	for _, c := range []*cobra.Command{create, update} {
		c.Flags().String("title", "", "event title")
		c.Flags().String("description", "", "free text")
		c.Flags().String("start", "", "start time (RFC 3339 or YYYY-MM-DD)")
		c.Flags().String("end", "", "end time, not before start")
		c.Flags().String("location", "", "where it happens")
		c.Flags().String("owner", "", "owner user id")
		c.Flags().String("category", "", "category id")
		c.Flags().String("recurrence", "", "none|daily|weekly|monthly|yearly")
		c.Flags().Int("reminder", 0, "reminder, minutes before start")
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an event",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Events.GetByID(cmd.Context(), args[0]))
		}),
	}

	var listOwner string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the events of a user",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Events.ListByOwner(cmd.Context(), listOwner))
		}),
	}
	list.Flags().StringVar(&listOwner, "owner", "", "owner user id")
	_ = list.MarkFlagRequired("owner")

	var from, to, rangeOwner string
	rng := &cobra.Command{
		Use:   "range",
		Short: "List events intersecting [--from, --to]",
		RunE: a.withServices(func(cmd *cobra.Command, _ []string, svc *service.Services) error {
			return emit(a.out, svc.Events.ListByDateRange(cmd.Context(), from, to, rangeOwner))
		}),
	}
	rng.Flags().StringVar(&from, "from", "", "range start")
	rng.Flags().StringVar(&to, "to", "", "range end")
	rng.Flags().StringVar(&rangeOwner, "owner", "", "narrow to one owner")

	var catOwner string
	byCat := &cobra.Command{
		Use:   "by-category <category-id>",
		Short: "List the events of a category",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Events.ListByCategory(cmd.Context(), args[0], catOwner))
		}),
	}
	byCat.Flags().StringVar(&catOwner, "owner", "", "narrow to one owner")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svc *service.Services) error {
			return emit(a.out, svc.Events.Delete(cmd.Context(), args[0]))
		}),
	}

	cmd.AddCommand(create, get, list, rng, byCat, update, del)
	return cmd
}
