/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command rosidlgen reads .msg/.srv/.action/.idl interface definitions
// from a directory and writes generated Go source for each message type
// found, one file per type, into an output directory — the CLI wrapper
// around the rosidl/typedesc/codegen pipeline (spec.md §1 point 6).
//
// Package/name for a native file is taken from its path:
// .../<package>/msg/<Name>.msg (srv/action analogously); a package
// given on the command line with -package overrides the Go package
// every generated file declares, independent of the ROS2 package name
// baked into each type's own TypeName().
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rclzenoh/rclzenoh/codegen"
	"github.com/rclzenoh/rclzenoh/rlog"
	"github.com/rclzenoh/rclzenoh/rosidl"
	"github.com/rclzenoh/rclzenoh/typedesc"
)

var (
	inDir   = flag.String("in", "", "Directory containing .msg/.srv/.action/.idl interface files")
	outDir  = flag.String("out", "", "Directory to write generated Go source into")
	pkg     = flag.String("package", "", "Go package name for generated files (defaults to the ROS2 package name)")
	verbose = flag.Bool("v", false, "Display verbose status updates to stderr")
)

func main() {
	flag.Parse()
	lg := rlog.New(os.Stderr)
	if *verbose {
		lg.SetLevel(rlog.DEBUG)
	}

	if *inDir == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "both -in and -out are required")
		flag.Usage()
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		lg.Errorf("failed to create output directory: %v", err)
		os.Exit(1)
	}

	reg := rosidl.NewRegistry()
	if err := loadDirectory(reg, *inDir, lg); err != nil {
		lg.Errorf("failed to load interface definitions: %v", err)
		os.Exit(1)
	}

	count := 0
	for _, md := range reg.Messages {
		goPkg := *pkg
		if goPkg == "" {
			goPkg = md.Name.Package
		}
		doc, err := typedesc.BuildDocument(reg, md)
		if err != nil {
			lg.Warnf("skipping %s: %v", md.Name.String(), err)
			continue
		}
		hash := typedesc.Hash(doc)
		gen, err := codegen.GenerateMessage(goPkg, md, hash)
		if err != nil {
			lg.Errorf("failed to generate %s: %v", md.Name.String(), err)
			os.Exit(1)
		}
		outPath := filepath.Join(*outDir, gen.FileName)
		if err := os.WriteFile(outPath, []byte(gen.Source), 0o644); err != nil {
			lg.Errorf("failed to write %s: %v", outPath, err)
			os.Exit(1)
		}
		lg.Infof("wrote %s", outPath)
		count++
	}
	lg.Infof("generated %d message type(s)", count)
}

// pkgAndNameFromPath derives the ROS2 package and interface name from a
// conventional rosidl path: <...>/<package>/<msg|srv|action>/<Name>.<ext>.
func pkgAndNameFromPath(path string) (pkgName, name string) {
	dir, file := filepath.Split(path)
	name = strings.TrimSuffix(file, filepath.Ext(file))
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	pkgDir := filepath.Dir(dir) // strip the "msg"/"srv"/"action" category dir
	pkgName = filepath.Base(pkgDir)
	return
}

// loadDirectory walks dir for .msg/.srv/.action/.idl files and parses
// each into reg.
func loadDirectory(reg *rosidl.Registry, dir string, lg *rlog.Logger) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		pkgName, name := pkgAndNameFromPath(path)
		switch {
		case strings.HasSuffix(path, ".msg"):
			md, err := rosidl.ParseMessage(path, pkgName, name, data)
			if err != nil {
				return err
			}
			reg.AddNative(md)
		case strings.HasSuffix(path, ".srv"):
			sd, err := rosidl.ParseService(path, pkgName, name, data)
			if err != nil {
				return err
			}
			reg.AddNativeService(sd)
			reg.AddNative(sd.Request)
			reg.AddNative(sd.Response)
		case strings.HasSuffix(path, ".action"):
			ad, err := rosidl.ParseAction(path, pkgName, name, data)
			if err != nil {
				return err
			}
			reg.AddNativeAction(ad)
			reg.AddNative(ad.Goal)
			reg.AddNative(ad.Result)
			reg.AddNative(ad.Feedback)
		case strings.HasSuffix(path, ".idl"):
			msgs, err := rosidl.ParseIDL(path, data)
			if err != nil {
				return err
			}
			for _, md := range msgs {
				reg.AddIDL(md)
			}
		default:
			lg.Debugf("ignoring non-interface file %s", path)
		}
		return nil
	})
}
