package main

import (
	"fmt"
	"strconv"

	"github.com/primal-host/primal-folio/internal/admin"
	"github.com/primal-host/primal-folio/internal/content"
	"github.com/spf13/cobra"
)

// sectionCommand builds "<name> set --file f.json".
func sectionCommand[T interface{ Normalize() T }](name string, section func(*admin.Store) *admin.Section[T]) *cobra.Command {
	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the " + name + " section from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var v T
			if err := readJSONFile(cmd, file, &v); err != nil {
				return err
			}
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			stored, err := section(s).Set(cmd.Context(), v)
			if err != nil {
				return err
			}
			return printJSON(cmd, stored)
		},
	}
	set.Flags().StringVarP(&file, "file", "f", "", "JSON file, or - for stdin")

	root := &cobra.Command{Use: name, Short: "Edit the " + name + " section"}
	root.AddCommand(set)
	return root
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// collectionCommand builds list/add/update/delete for an item list.
func collectionCommand[T content.Item[T]](name string, collection func(*admin.Store) *admin.Collection[T]) *cobra.Command {
	var file string

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, collection(s).List())
		},
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add an entry from a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var v T
			if err := readJSONFile(cmd, file, &v); err != nil {
				return err
			}
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			stored, err := collection(s).Create(cmd.Context(), v)
			if err != nil {
				return err
			}
			return printJSON(cmd, stored)
		},
	}
	add.Flags().StringVarP(&file, "file", "f", "", "JSON file, or - for stdin")

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an entry from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var v T
			if err := readJSONFile(cmd, file, &v); err != nil {
				return err
			}
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			stored, err := collection(s).Update(cmd.Context(), id, v)
			if err != nil {
				return err
			}
			return printJSON(cmd, stored)
		},
	}
	update.Flags().StringVarP(&file, "file", "f", "", "JSON file, or - for stdin")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := collection(s).Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d\n", id)
			return nil
		},
	}

	root := &cobra.Command{Use: name, Short: "Edit " + name}
	root.AddCommand(list, add, update, del)
	return root
}

// skillsCommand builds the skills taxonomy commands.
func skillsCommand() *cobra.Command {
	root := &cobra.Command{Use: "skills", Short: "Edit skills categories"}

	withSession := func(run func(cmd *cobra.Command, s *admin.Store, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			return run(cmd, s, args)
		}
	}

	listEdit := func(use, short string, edit func(s *admin.Store, cmd *cobra.Command, id, arg string) (content.SkillsCategory, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: withSession(func(cmd *cobra.Command, s *admin.Store, args []string) error {
				cat, err := edit(s, cmd, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd, cat)
			}),
		}
	}
	index := func(arg string) (int, error) {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return 0, fmt.Errorf("invalid index %q", arg)
		}
		return i, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, _, err := openStore(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(cmd, s.Skills())
			},
		},
		&cobra.Command{
			Use:   "add <label>",
			Short: "Add an empty category; its id is derived from the label",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(func(cmd *cobra.Command, s *admin.Store, args []string) error {
				id, err := s.AddCategory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "rename <id> <label>",
			Short: "Relabel a category, moving it when the id changes",
			Args:  cobra.ExactArgs(2),
			RunE: withSession(func(cmd *cobra.Command, s *admin.Store, args []string) error {
				id, err := s.RenameCategory(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s -> %s\n", args[0], id)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(func(cmd *cobra.Command, s *admin.Store, args []string) error {
				if err := s.DeleteCategory(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			}),
		},
		listEdit("add-skill <id> <skill>", "Append a skill",
			func(s *admin.Store, cmd *cobra.Command, id, arg string) (content.SkillsCategory, error) {
				return s.AddSkill(cmd.Context(), id, arg)
			}),
		listEdit("remove-skill <id> <index>", "Remove the skill at index",
			func(s *admin.Store, cmd *cobra.Command, id, arg string) (content.SkillsCategory, error) {
				i, err := index(arg)
				if err != nil {
					return content.SkillsCategory{}, err
				}
				return s.RemoveSkill(cmd.Context(), id, i)
			}),
		listEdit("add-achievement <id> <text>", "Append an achievement",
			func(s *admin.Store, cmd *cobra.Command, id, arg string) (content.SkillsCategory, error) {
				return s.AddAchievement(cmd.Context(), id, arg)
			}),
		listEdit("remove-achievement <id> <index>", "Remove the achievement at index",
			func(s *admin.Store, cmd *cobra.Command, id, arg string) (content.SkillsCategory, error) {
				i, err := index(arg)
				if err != nil {
					return content.SkillsCategory{}, err
				}
				return s.RemoveAchievement(cmd.Context(), id, i)
			}),
	)
	return root
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(
		sectionCommand("hero", (*admin.Store).Hero),
		sectionCommand("about", (*admin.Store).About),
		sectionCommand("contact", (*admin.Store).Contact),
		skillsCommand(),
		collectionCommand("projects", (*admin.Store).Projects),
		collectionCommand("experiences", (*admin.Store).Experiences),
		collectionCommand("testimonials", (*admin.Store).Testimonials),
	)
}
