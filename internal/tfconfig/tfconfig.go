// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package tfconfig renders the minimal project configuration that pins a
// single provider source and version.
package tfconfig

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// FileName is the name of the configuration file written into a workspace.
const FileName = "main.tf"

// fallbackLocalName is used when the provider type is not a valid identifier.
const fallbackLocalName = "provider"

// Render returns a configuration declaring one required provider with the
// given registry source address and exact version:
//
//	terraform {
//	  required_providers {
//	    aws = {
//	      source  = "hashicorp/aws"
//	      version = "5.1.0"
//	    }
//	  }
//	}
func Render(
	source string,
	version string,
) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("provider source is required")
	}
	if version == "" {
		return nil, fmt.Errorf("provider %q has no version to pin", source)
	}

	f := hclwrite.NewEmptyFile()
	terraform := f.Body().AppendNewBlock("terraform", nil)
	required := terraform.Body().AppendNewBlock("required_providers", nil)
	required.Body().SetAttributeValue(LocalName(source), cty.ObjectVal(map[string]cty.Value{
		"source":  cty.StringVal(source),
		"version": cty.StringVal(version),
	}))

	return hclwrite.Format(f.Bytes()), nil
}

// LocalName derives the local provider name from a source address: the
// provider type after the last "/", or "provider" when that is not a valid
// HCL identifier.
func LocalName(
	source string,
) string {
	name := source
	if i := strings.LastIndex(source, "/"); i >= 0 {
		name = source[i+1:]
	}

	if name == "" || !hclsyntax.ValidIdentifier(name) {
		return fallbackLocalName
	}

	return name
}
