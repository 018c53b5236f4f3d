// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gdml converts, inspects and watches GDML detector geometry files.
//
//	gdml convert in.gdml out.gdml
//	gdml info in.gdml
//	gdml watch in.gdml out.gdml
package main

import (
	"fmt"
	"os"

	"cogentcore.org/gdml/base/logx"
	"cogentcore.org/gdml/config"
	"github.com/spf13/cobra"
)

// app holds the state shared by the commands.
type app struct {
	configFile string
	logLevel   string
	policy     string
	export     config.Export
	cfg        *config.Config
}

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gdml",
		Short:         "Convert and inspect GDML detector geometry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default "+config.DefaultFile+")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&a.policy, "policy", "", "expansion policy: eager, lazy or depth")
	pf.StringVar(&a.export.Lunit, "lunit", "", "length unit of exported files")
	pf.StringVar(&a.export.Aunit, "aunit", "", "angle unit of exported files")
	pf.BoolVar(&a.export.KeepUnits, "keep-units", false, "export solids in the units they were read with")
	pf.BoolVar(&a.export.Split, "split", false, "export each section to its own file")
	pf.BoolVar(&a.export.Compact, "compact", false, "export without indentation")
	root.AddCommand(a.convertCmd(), a.infoCmd(), a.watchCmd())
	return root
}

// setup loads the configuration, applies the global flags and
// installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "gdml:", err)
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.policy != "" {
		cfg.Import.Policy = a.policy
	}
	f := cmd.Flags()
	if f.Changed("lunit") {
		cfg.Export.Lunit = a.export.Lunit
	}
	if f.Changed("aunit") {
		cfg.Export.Aunit = a.export.Aunit
	}
	if f.Changed("keep-units") {
		cfg.Export.KeepUnits = a.export.KeepUnits
	}
	if f.Changed("split") {
		cfg.Export.Split = a.export.Split
	}
	if f.Changed("compact") {
		cfg.Export.Compact = a.export.Compact
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "gdml:", err)
		return err
	}
	cfg.Apply()
	logx.SetDefault()
	a.cfg = cfg
	return nil
}
