// Copyright 2025 The recordd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/recordd/recordd/cursor"
	"github.com/recordd/recordd/internal/chainbuf"
	"github.com/recordd/recordd/internal/json"
	"github.com/recordd/recordd/record"
	"github.com/recordd/recordd/source"
	"github.com/recordd/recordd/tailer"
)

type catCmdConfig struct {
	EmitTail bool
	FailFast bool
	Match    string
	Raw      bool
}

var catConfig catCmdConfig

var catCmd = &cobra.Command{
	Use:   "cat FILE...",
	Short: "Split files into records and print them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, path := range args {
			if err := catFile(path); err != nil {
				fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
				os.Exit(1)
			}
		}
	},
}

func catFile(path string) error {
	src, err := source.NewFile(source.Config{Name: path, Type: "file", Path: path})
	if err != nil {
		return err
	}

	opts := tailer.Options{
		Cursor: cursor.Config{TrimCR: true},
	}
	if catConfig.EmitTail {
		opts.Cursor.Tail = cursor.TailEmit
	}
	if catConfig.FailFast {
		opts.Policy = tailer.PolicyFailFast
	}
	if catConfig.Match != "" {
		needle := []byte(catConfig.Match)
		opts.Predicate = func(v chainbuf.View) bool {
			b, ok := v.Contiguous()
			if !ok {
				b = v.Bytes()
			}
			return bytes.Contains(b, needle)
		}
	}

	t := tailer.New(path, src, record.NewJSONDecoder(path), opts)
	defer t.Close()

	encoder := json.NewEncoder(os.Stdout)
	ctx := context.Background()
	for {
		if catConfig.Raw {
			v, err := t.NextRaw(ctx)
			if err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
			os.Stdout.Write(v.Bytes())
			os.Stdout.Write(chainbuf.CharLF)
			continue
		}

		r, err := t.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := encoder.Encode(r.Data); err != nil {
			return err
		}
	}
}

func init() {
	catCmd.Flags().BoolVar(&catConfig.EmitTail, "emit-tail", false, "Emit the trailing record without delimiter")
	catCmd.Flags().BoolVar(&catConfig.FailFast, "fail-fast", false, "Abort on first decode failure")
	catCmd.Flags().StringVar(&catConfig.Match, "match", "", "Only handle records containing the given bytes")
	catCmd.Flags().BoolVar(&catConfig.Raw, "raw", false, "Print raw records without decoding")
	rootCmd.AddCommand(catCmd)
}
