package shared

import (
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/contractkit/internal/errors"
)

// MaximumArgs is cobra.MaximumNArgs reporting an argument error.
func MaximumArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.MaximumNArgs(n))
}

// ExactArgs is cobra.ExactArgs reporting an argument error.
func ExactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
		}
		return nil
	}
}

// FlagError turns a flag parsing failure into an argument error.
func FlagError(cmd *cobra.Command, err error) error {
	return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
}
