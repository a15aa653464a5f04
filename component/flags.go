package component

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FlagRegistrar is an optional extension point a component implements to
// contribute its own CLI flags, mirroring Component.RegisterFlag in the
// teacher (config/cptList.go). GraphEngine never builds a CLI itself (out
// of scope, spec.md §1); RegisterFlags only fans the call out to whichever
// processes opt in.
type FlagRegistrar interface {
	RegisterFlag(cmd *cobra.Command, v *viper.Viper) error
}
