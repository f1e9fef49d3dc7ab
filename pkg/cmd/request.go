// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-maingate/pkg/util/field"
	"github.com/segmentio/encoding/json"
)

// ProveRequest is the JSON request accepted by the prove command.
type ProveRequest struct {
	PrivateInput []uint64 `json:"private_input"`
	PublicInput  string   `json:"public_input"`
}

// readProveRequest reads and decodes a JSON request file.
func readProveRequest(filename string) (ProveRequest, error) {
	var req ProveRequest
	//
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return req, err
	}
	//
	if err := json.Unmarshal(bytes, &req); err != nil {
		return req, fmt.Errorf("decoding %s: %w", filename, err)
	} else if req.PublicInput == "" {
		return req, fmt.Errorf("%s: missing public_input", filename)
	}
	//
	return req, nil
}

// Inputs returns the private inputs of this request as field elements.
func (r ProveRequest) Inputs() []field.Element {
	inputs := make([]field.Element, len(r.PrivateInput))
	//
	for i, x := range r.PrivateInput {
		inputs[i] = field.Uint64(x)
	}
	//
	return inputs
}

// Public returns the public input of this request as a field element.
func (r ProveRequest) Public() (field.Element, error) {
	return field.FromString(r.PublicInput)
}

// parseElements parses field elements given on the command line.
func parseElements(args []string) ([]field.Element, error) {
	elements := make([]field.Element, len(args))
	//
	for i, arg := range args {
		val, err := field.FromString(arg)
		if err != nil {
			return nil, err
		}
		//
		elements[i] = val
	}
	//
	return elements, nil
}
