// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/bookshelf/internal/core/book"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the to-read and read lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderSnapshot(current.out, current.dispatcher.Snapshot())
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to the to-read list",
	Long: `Add a book to the to-read list.

Title and author are required. When either is missing from the flags an
interactive form is shown.

Example:
  booklist add --title "Dune" --author "Frank Herbert" --year 1965`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var fields book.Fields
		applyFieldFlags(cmd, &fields)

		if fields.Title == "" || fields.Author == "" {
			if err := askFields(cmd.Context(), "New book", &fields); err != nil {
				return err
			}
		}

		snapshot, _, err := current.dispatcher.SubmitForm(cmd.Context(), fields)
		if err != nil {
			return err
		}

		renderSnapshot(current.out, snapshot)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <index>",
	Short: "Edit the details of a book",
	Long: `Edit the details of the book at <index> (the number shown by "list").

Flags replace individual fields; without flags the form opens prefilled.
Read state, rating and review are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		fields, err := current.dispatcher.BeginEdit(cmd.Context(), index)
		if err != nil {
			return err
		}

		if !applyFieldFlags(cmd, &fields) {
			if err := askFields(cmd.Context(), "Edit book", &fields); err != nil {
				current.dispatcher.CancelEdit(cmd.Context())
				return err
			}
		}

		snapshot, _, err := current.dispatcher.SubmitForm(cmd.Context(), fields)
		if err != nil {
			return err
		}

		renderSnapshot(current.out, snapshot)
		return nil
	},
}

var readCmd = &cobra.Command{
	Use:   "read <index>",
	Short: "Mark a book as read with a rating and review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		prompt, err := current.dispatcher.RequestMarkRead(cmd.Context(), index)
		if err != nil {
			return err
		}

		var answer book.Answer
		if cmd.Flags().Changed("rating") {
			rating, _ := cmd.Flags().GetString("rating")
			review, _ := cmd.Flags().GetString("review")
			answer = book.Answer{Rating: book.NumericInput(rating), Review: review}
		} else if answer, err = askRating(cmd.Context(), prompt); err != nil {
			_ = current.dispatcher.CancelMarkRead(cmd.Context())
			return err
		}

		snapshot, err := current.dispatcher.ConfirmMarkRead(cmd.Context(), answer.Rating, answer.Review)
		if err != nil {
			return err
		}

		renderSnapshot(current.out, snapshot)
		return nil
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread <index>",
	Short: "Move a book back to the to-read list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		snapshot, err := current.dispatcher.MarkUnread(cmd.Context(), index)
		if err != nil {
			return err
		}

		renderSnapshot(current.out, snapshot)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <index>",
	Short: "Remove a book from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		var confirmer book.Confirmer = huhConfirmer{}
		if yes, _ := cmd.Flags().GetBool("yes"); yes {
			confirmer = assumeYes
		}

		snapshot, deleted, err := current.dispatcher.DeleteWithConfirmation(cmd.Context(), index, confirmer)
		if err != nil {
			return err
		}
		if !deleted {
			fmt.Fprintln(current.out, mutedStyle.Render("Nothing was deleted."))
		}

		renderSnapshot(current.out, snapshot)
		return nil
	},
}

// fieldFlags maps flag names to the form field they fill.
var fieldFlags = []struct {
	name  string
	usage string
	field func(*book.Fields) *string
}{
	{"title", "Book title", func(f *book.Fields) *string { return &f.Title }},
	{"author", "Book author", func(f *book.Fields) *string { return &f.Author }},
	{"publisher", "Publisher", func(f *book.Fields) *string { return &f.Publisher }},
	{"edition", "Edition", func(f *book.Fields) *string { return &f.Edition }},
	{"language", "Language", func(f *book.Fields) *string { return &f.Language }},
}

func registerFieldFlags(cmd *cobra.Command) {
	for _, flag := range fieldFlags {
		cmd.Flags().String(flag.name, "", flag.usage)
	}
	cmd.Flags().String("year", "", "Publication year")
}

// applyFieldFlags copies every flag the user set into fields and reports
// whether any was set.
func applyFieldFlags(cmd *cobra.Command, fields *book.Fields) bool {
	changed := false

	for _, flag := range fieldFlags {
		if cmd.Flags().Changed(flag.name) {
			value, _ := cmd.Flags().GetString(flag.name)
			*flag.field(fields) = value
			changed = true
		}
	}

	if cmd.Flags().Changed("year") {
		year, _ := cmd.Flags().GetString("year")
		fields.Year = book.NumericInput(year)
		changed = true
	}

	return changed
}

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid index %q: use the number shown by \"booklist list\"", arg)
	}
	return index, nil
}

func init() {
	registerFieldFlags(addCmd)
	registerFieldFlags(editCmd)

	readCmd.Flags().String("rating", "", "Rating from 1 to 10")
	readCmd.Flags().String("review", "", "Short review")

	deleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")

	rootCmd.AddCommand(listCmd, addCmd, editCmd, readCmd, unreadCmd, deleteCmd)
}
