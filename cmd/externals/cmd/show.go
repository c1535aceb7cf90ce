package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"externals/pkg/externals"
)

var showFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved externals description",
	Long: `Loads and validates the description, then prints every entry with all
defaults filled in — the exact view the checkout planner would consume.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := externals.Load(cmd.Context(), rootDir, fileName, nil)
		if err != nil {
			return err
		}

		switch showFormat {
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			if err := enc.Encode(desc); err != nil {
				return err
			}
			return enc.Close()
		case "ini":
			data, err := desc.EncodeINI()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		case "text":
			for _, name := range desc.Names() {
				e, _ := desc.Get(name)
				fmt.Printf("%-20s %-14s %s\n", name, e.Repo.Protocol, ref(e))
			}
			return nil
		default:
			return fmt.Errorf("unknown output format %q (use yaml, ini, or text)", showFormat)
		}
	},
}

func ref(e externals.Entry) string {
	switch {
	case e.FromSubmodule:
		return fmt.Sprintf("submodule %s", e.Repo.Hash)
	case e.Repo.Tag != "":
		return "tag " + e.Repo.Tag
	case e.Repo.Branch != "":
		return "branch " + e.Repo.Branch
	case e.Repo.Hash != "":
		return "hash " + e.Repo.Hash
	default:
		return "externals only"
	}
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "output", "o", "text", "output format: text, yaml, or ini")

	rootCmd.AddCommand(showCmd)
}
