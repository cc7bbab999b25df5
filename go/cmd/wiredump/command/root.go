/*
Copyright 2026 The Sqlwire Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package command

import (
	goflag "flag"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Root is the wiredump command tree.
var Root = &cobra.Command{
	Use:   "wiredump",
	Short: "wiredump decodes captured MySQL wire-protocol byte streams.",
	Long: "`wiredump` is a debugging tool for MySQL client/server traffic.\n\n" +
		"It reads a hex dump of a packet stream (as captured from a socket, " +
		"one direction at a time), reassembles the packet framing, classifies " +
		"every payload, and pretty-prints the sentinel packets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// glog registers its flags on the standard flag set.
		return goflag.CommandLine.Parse(nil)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		glog.Flush()
	},
	Run: func(cmd *cobra.Command, _ []string) { cmd.Help() },
}

func init() {
	// Bridge glog's standard flags through pflag into the command
	// tree, so -v and friends work from the wiredump command line.
	pflag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	Root.PersistentFlags().AddFlagSet(pflag.CommandLine)
	Root.AddCommand(Decode())
}
