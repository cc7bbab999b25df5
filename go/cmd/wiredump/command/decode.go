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
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"sqlwire.io/sqlwire/go/mysql"
)

var (
	capsFlag  string
	queryFlag bool
)

// Decode returns the `wiredump decode` subcommand.
func Decode() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: "Decode a hex dump of a server-to-client packet stream.",
		Long: "Reads a hex dump (whitespace and '#' comments ignored) from the " +
			"given file or stdin, reassembles the MySQL packet framing, and " +
			"prints one line per logical payload.",
		Args: cobra.MaximumNArgs(1),
		RunE: runDecode,
	}
	cmd.Flags().StringVar(&capsFlag, "caps", "0x01000200",
		"negotiated capability flags as a hex integer; the default has CLIENT_PROTOCOL_41 and CLIENT_DEPRECATE_EOF set")
	cmd.Flags().BoolVar(&queryFlag, "query", false,
		"treat the stream as a COM_QUERY response (enables LOCAL INFILE detection)")
	return cmd
}

func runDecode(cmd *cobra.Command, args []string) error {
	capabilities64, err := strconv.ParseUint(strings.TrimPrefix(capsFlag, "0x"), 16, 32)
	if err != nil {
		return fmt.Errorf("bad --caps value %q: %v", capsFlag, err)
	}
	capabilities := uint32(capabilities64)

	in := io.Reader(os.Stdin)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	stream, err := readHexDump(in)
	if err != nil {
		return err
	}
	glog.V(1).Infof("decoding %d raw bytes with capabilities 0x%08x", len(stream), capabilities)

	var framer mysql.Framer
	framer.Feed(stream)

	n := 0
	for {
		payload, ok := framer.Next()
		if !ok {
			break
		}
		n++
		printPayload(cmd.OutOrStdout(), n, payload, capabilities)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d payloads, last sequence id %d\n", n, framer.LastSeq())
	return nil
}

// readHexDump reads hex bytes, ignoring whitespace and '#' line
// comments.
func readHexDump(in io.Reader) ([]byte, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	var compact strings.Builder
	for _, line := range strings.Split(string(raw), "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, field := range strings.Fields(line) {
			compact.WriteString(strings.TrimPrefix(field, "0x"))
		}
	}
	return hex.DecodeString(compact.String())
}

func printPayload(out io.Writer, n int, payload []byte, capabilities uint32) {
	preview := payload
	if len(preview) > 32 {
		preview = preview[:32]
	}

	switch mysql.Classify(payload, capabilities, queryFlag) {
	case mysql.ReplyOK:
		ok, err := mysql.ParseOK(payload, capabilities)
		if err != nil {
			fmt.Fprintf(out, "#%d OK (unparseable: %v) %x\n", n, err, preview)
			return
		}
		fmt.Fprintf(out, "#%d OK affected=%d insert_id=%d status=0x%04x warnings=%d info=%q\n",
			n, ok.AffectedRows, ok.LastInsertID, ok.StatusFlags, ok.Warnings, ok.Info())
	case mysql.ReplyErr:
		serr, err := mysql.ParseErr(payload, capabilities)
		if err != nil {
			fmt.Fprintf(out, "#%d ERR (unparseable: %v) %x\n", n, err, preview)
			return
		}
		fmt.Fprintf(out, "#%d ERR %d (%s): %s\n", n, serr.Num, serr.State, serr.Message)
	case mysql.ReplyEOF:
		eof, err := mysql.ParseEOF(payload, capabilities)
		if err != nil {
			fmt.Fprintf(out, "#%d EOF (unparseable: %v) %x\n", n, err, preview)
			return
		}
		fmt.Fprintf(out, "#%d EOF status=0x%04x warnings=%d\n", n, eof.StatusFlags, eof.Warnings)
	case mysql.ReplyLocalInfile:
		fmt.Fprintf(out, "#%d LOCAL INFILE request for %q\n", n, payload[1:])
	default:
		fmt.Fprintf(out, "#%d data %d bytes: %x\n", n, len(payload), preview)
	}
}
