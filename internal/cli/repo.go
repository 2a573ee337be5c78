package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waabox/plugforge/internal/git"
	githubprovider "github.com/waabox/plugforge/internal/provider/github"
)

func (a *app) newRepoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage GitHub repositories",
	}
	cmd.AddCommand(a.newRepoCreateCommand(), a.newRepoExistsCommand())
	return cmd
}

func (a *app) newRepoCreateCommand() *cobra.Command {
	var (
		owner       string
		description string
		private     bool
		device      bool
	)
	cmd := &cobra.Command{
		Use:   "create <template> <name>",
		Short: "Create a repository from a template repository",
		Long: `Create a repository from a template repository. <template> is an HTTPS or
SSH URL or the owner/repo shorthand. The new repository is created under
--owner, or under the authenticated user when --owner is empty.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := git.ParseRemoteURL(args[0])
			if err != nil {
				return err
			}
			session, user, err := a.authenticate(cmd.Context(), cmd.ErrOrStderr(), device)
			if err != nil {
				return err
			}
			if owner == "" {
				owner = user.Login
			}
			repo, err := session.CreateRepositoryFromTemplate(cmd.Context(), githubprovider.TemplateRequest{
				TemplateOwner: template.Owner,
				TemplateRepo:  template.Name,
				Owner:         owner,
				Name:          args[1],
				Description:   description,
				Private:       private,
			})
			if err != nil {
				return fmt.Errorf("creating repository: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s\n", repo.FullName)
			fmt.Fprintf(out, "  web:   %s\n", repo.HTMLURL)
			fmt.Fprintf(out, "  clone: %s\n", repo.CloneURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "Owner of the new repository (default: authenticated user)")
	cmd.Flags().StringVar(&description, "description", "", "Repository description")
	cmd.Flags().BoolVar(&private, "private", false, "Create a private repository")
	cmd.Flags().BoolVar(&device, "device", false, "Use the device flow when no token is configured")
	return cmd
}

func (a *app) newRepoExistsCommand() *cobra.Command {
	var device bool
	cmd := &cobra.Command{
		Use:   "exists <owner/repo>",
		Short: "Print whether a repository exists and is visible to you",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := git.ParseRemoteURL(args[0])
			if err != nil {
				return err
			}
			session, _, err := a.authenticate(cmd.Context(), cmd.ErrOrStderr(), device)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.RepositoryExists(cmd.Context(), target.Owner, target.Name))
			return nil
		},
	}
	cmd.Flags().BoolVar(&device, "device", false, "Use the device flow when no token is configured")
	return cmd
}
