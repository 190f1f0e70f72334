package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langner-srs/internal/review"
	"github.com/at-ishikawa/langner-srs/internal/srs"
)

const (
	defaultItemType = "vocabulary"
	timeLayout      = "2006-01-02 15:04"
)

func newRegisterCommand() *cobra.Command {
	var itemType string
	cmd := &cobra.Command{
		Use:   "register <user> <item>",
		Short: "Register an item a learner has encountered",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, closeFn, err := newReviewer()
			if err != nil {
				return err
			}
			defer closeFn()

			if err := reviewer.RegisterItem(cmd.Context(), review.RegisterItemInput{
				UserID:   args[0],
				ItemID:   args[1],
				ItemType: itemType,
			}); err != nil {
				return fmt.Errorf("register item: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s/%s for %s\n", itemType, args[1], args[0])
			return err
		},
	}
	cmd.Flags().StringVar(&itemType, "type", defaultItemType, "item type")
	return cmd
}

func newReviewCommand() *cobra.Command {
	var itemType string
	var correct bool
	cmd := &cobra.Command{
		Use:   "review <user> <item>",
		Short: "Record the answer of a learner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, closeFn, err := newReviewer()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			if err := reviewer.SubmitReview(ctx, review.SubmitReviewInput{
				UserID:    args[0],
				ItemID:    args[1],
				ItemType:  itemType,
				IsCorrect: correct,
			}); err != nil {
				return fmt.Errorf("submit review: %w", err)
			}

			record, err := reviewer.GetItem(ctx, review.GetItemInput{
				UserID:   args[0],
				ItemID:   args[1],
				ItemType: itemType,
			})
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}

			out := cmd.OutOrStdout()
			if record == nil {
				_, err = color.New(color.FgYellow).Fprintf(out, "%s/%s is not registered for %s, review ignored\n", itemType, args[1], args[0])
				return err
			}
			if correct {
				color.New(color.FgGreen).Fprint(out, "correct")
			} else {
				color.New(color.FgRed).Fprint(out, "incorrect")
			}
			_, err = fmt.Fprintf(out, ": %s/%s next review at %s (interval %s, ease %.2f)\n",
				itemType, args[1], record.NextReviewAt.UTC().Format(timeLayout), record.CurrentInterval.String, record.EaseFactor)
			return err
		},
	}
	cmd.Flags().StringVar(&itemType, "type", defaultItemType, "item type")
	cmd.Flags().BoolVar(&correct, "correct", false, "the answer was correct")
	return cmd
}

func newDueCommand() *cobra.Command {
	var itemType string
	var limit int
	cmd := &cobra.Command{
		Use:   "due <user>",
		Short: "List items due for review, longest overdue first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, closeFn, err := newReviewer()
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := reviewer.ListDueItems(cmd.Context(), review.ListDueItemsInput{
				UserID:   args[0],
				ItemType: itemType,
				Limit:    limit,
			})
			if err != nil {
				return fmt.Errorf("list due items: %w", err)
			}
			return printDueItems(cmd.OutOrStdout(), items, time.Now())
		},
	}
	cmd.Flags().StringVar(&itemType, "type", defaultItemType, "item type")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of items; 0 uses the configured default")
	return cmd
}

// printDueItems highlights items overdue by more than a day.
func printDueItems(w io.Writer, items []srs.DueItem, now time.Time) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items are due")
		return err
	}
	overdue := color.New(color.FgRed)
	for _, item := range items {
		line := fmt.Sprintf("%s\t%s\n", item.NextReviewAt.UTC().Format(timeLayout), item.ItemID)
		var err error
		if now.Sub(item.NextReviewAt) > 24*time.Hour {
			_, err = overdue.Fprint(w, line)
		} else {
			_, err = fmt.Fprint(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func newShowCommand() *cobra.Command {
	var itemType string
	cmd := &cobra.Command{
		Use:   "show <user> <item>",
		Short: "Show the schedule of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, closeFn, err := newReviewer()
			if err != nil {
				return err
			}
			defer closeFn()

			record, err := reviewer.GetItem(cmd.Context(), review.GetItemInput{
				UserID:   args[0],
				ItemID:   args[1],
				ItemType: itemType,
			})
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}
			return printRecord(cmd.OutOrStdout(), args[0], args[1], itemType, record)
		},
	}
	cmd.Flags().StringVar(&itemType, "type", defaultItemType, "item type")
	return cmd
}

func printRecord(w io.Writer, userID, itemID, itemType string, record *srs.ScheduleRecord) error {
	if record == nil {
		_, err := fmt.Fprintf(w, "%s/%s is not registered for %s\n", itemType, itemID, userID)
		return err
	}

	lastReviewed := "never"
	interval := "-"
	if record.LastReviewedAt != nil {
		lastReviewed = record.LastReviewedAt.UTC().Format(timeLayout)
		interval = record.CurrentInterval.String
	}
	_, err := fmt.Fprintf(w, "user:          %s\nitem:          %s/%s\nlast reviewed: %s\nnext review:   %s\ninterval:      %s\nease factor:   %.2f\n",
		record.UserID, record.ItemType, record.ItemID, lastReviewed,
		record.NextReviewAt.UTC().Format(timeLayout), interval, record.EaseFactor)
	return err
}

func newRemoveItemCommand() *cobra.Command {
	var itemType string
	cmd := &cobra.Command{
		Use:   "remove-item <item>",
		Short: "Apply the orphan policy to an item removed from its catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reviewer, closeFn, err := newReviewer()
			if err != nil {
				return err
			}
			defer closeFn()

			deleted, err := reviewer.RemoveItem(cmd.Context(), review.RemoveItemInput{
				ItemID:   args[0],
				ItemType: itemType,
			})
			if err != nil {
				return fmt.Errorf("remove item: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d schedule records of %s/%s\n", deleted, itemType, args[0])
			return err
		},
	}
	cmd.Flags().StringVar(&itemType, "type", defaultItemType, "item type")
	return cmd
}
