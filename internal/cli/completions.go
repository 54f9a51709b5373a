package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vvka-141/pgframe/internal/output"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

var (
	ifExistsPolicies = []string{"fail", "replace", "append"}
	inputFormats     = []string{"csv", "tsv", "json"}
)

func completeFrom(values []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var matches []string
	for _, v := range values {
		if strings.HasPrefix(v, toComplete) {
			matches = append(matches, v)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}

// completeSSLModes provides shell completion for SSL mode flag values.
func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFrom(sslModes, toComplete)
}

func completeIfExists(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFrom(ifExistsPolicies, toComplete)
}

func completeInputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFrom(inputFormats, toComplete)
}

func completeOutputFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFrom(output.Names(), toComplete)
}
