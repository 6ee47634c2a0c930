package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tresmontes-cajas/internal/rut"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/spf13/cobra"
)

func newRUTCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rut <value>",
		Short: "Validate and format a RUT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatted, err := rut.Format(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", formatted, rut.Normalize(args[0]))
			return nil
		},
	}
}

func newRenumberCommand(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "renumber",
		Short: "Renumber claim codes of delivered boxes per pickup day and plant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.openContainer()
			if err != nil {
				return err
			}
			summary, err := c.RenumberService.Renumber(cmd.Context(), dryRun)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing them")
	return cmd
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <campaign-id> <file>",
		Short: "Import a roster file into an existing campaign",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || campaignID == 0 {
				return fmt.Errorf("invalid campaign id %q", args[0])
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			c, err := opts.openContainer()
			if err != nil {
				return err
			}
			stored, err := c.UploadService.SaveRoster(args[1], f)
			if err != nil {
				return err
			}
			result, err := c.CampaignService.ImportRoster(cmd.Context(), cliActor, uint(campaignID), stored)
			if err != nil {
				_ = c.UploadService.Remove(stored.Path)
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newUserCommand(opts *rootOptions) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var (
		input     service.CreateUserInput
		plantCode string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.openContainer()
			if err != nil {
				return err
			}
			if plantCode != "" {
				plant, err := c.PlantRepo.GetByCode(plantCode)
				if err != nil {
					return err
				}
				if plant == nil {
					return fmt.Errorf("%w: %s", service.ErrPlantNotFound, plantCode)
				}
				input.PlantID = &plant.ID
			}
			created, err := c.UserService.Create(cliActor, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", created.Username, created.ID, created.Role)
			return nil
		},
	}
	flags := create.Flags()
	flags.StringVar(&input.Username, "username", "", "login name")
	flags.StringVar(&input.Password, "password", "", "initial password")
	flags.StringVar(&input.Role, "role", "", "admin, guardia or trabajador")
	flags.StringVar(&plantCode, "plant", "", "plant code, required for guards")
	flags.StringVar(&input.RUT, "rut", "", "RUT, e.g. 12.345.678-5")
	flags.StringVar(&input.FullName, "name", "", "full name")
	flags.StringVar(&input.Email, "email", "", "email")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")
	_ = create.MarkFlagRequired("role")

	user.AddCommand(create)
	return user
}
