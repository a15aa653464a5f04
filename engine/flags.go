package engine

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/beerfactory/hbflow/component"
)

// RegisterFlags fans out to every bound process implementing
// component.FlagRegistrar, mirroring componentList.RegisterFlag in the
// teacher: every process gets a chance to contribute flags even if an
// earlier one fails, and once the fan-out completes a single
// ErrorInvalidOperation error is returned with every failure chained as
// one of its parents (nil when none failed).
func (e *GraphEngine) RegisterFlags(cmd *cobra.Command, v *viper.Viper) error {
	var err error
	e.processes.Walk(func(_ string, val interface{}) bool {
		fr, ok := val.(component.FlagRegistrar)
		if !ok {
			return true
		}
		if e2 := fr.RegisterFlag(cmd, v); e2 != nil {
			if err == nil {
				err = ErrorInvalidOperation.Error(e2)
			} else if le, ok := err.(interface{ Add(...error) }); ok {
				le.Add(e2)
			}
		}
		return true
	})
	return err
}
