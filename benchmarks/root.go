package benchmarks

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/safe-interrupt/explorer"
)

var (
	episodes   int
	horizon    int
	saveFile   string
	runs       int
	configFile string
	cpuprofile string
	memprofile string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:          "safe-interrupt",
		Short:        "Safe interruptibility experiments on a grid world",
		SilenceUsage: true,
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 0, "Number of episodes to run (overrides the config)")
	rootCommand.PersistentFlags().IntVar(&horizon, "horizon", 0, "Horizon of each episode (overrides the config)")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "", "Save the result data in the specified folder (overrides the config)")
	rootCommand.PersistentFlags().IntVar(&runs, "runs", 0, "Number of experiment runs (overrides the config)")
	rootCommand.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Yaml experiment configuration")
	rootCommand.PersistentFlags().StringVar(&cpuprofile, "cpuprofile", "", "Write a cpu profile to this file in the save folder")
	rootCommand.PersistentFlags().StringVar(&memprofile, "memprofile", "", "Write a memory profile to this file in the save folder")
	// adding the subcommands here
	rootCommand.AddCommand(InterruptCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(explorer.ExploreCommand())
	return rootCommand
}
