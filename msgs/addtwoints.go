/*************************************************************************
 * Copyright 2017 Gravwell, Inc. All rights reserved.
 * Contact: <legal@gravwell.io>
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

package msgs

import "github.com/rclzenoh/rclzenoh/cdr"

// AddTwoIntsRequest mirrors example_interfaces/srv/AddTwoInts_Request:
// { int64 a, int64 b }.
type AddTwoIntsRequest struct {
	A int64
	B int64
}

func (*AddTwoIntsRequest) TypeName() string { return "example_interfaces/srv/AddTwoInts_Request" }

func (m *AddTwoIntsRequest) EncodeCDR() []byte {
	w := cdr.NewWriter()
	w.WriteInt64(m.A)
	w.WriteInt64(m.B)
	return w.Bytes()
}

func DecodeAddTwoIntsRequest(buf []byte) (*AddTwoIntsRequest, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	a, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	b, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	return &AddTwoIntsRequest{A: a, B: b}, nil
}

// AddTwoIntsResponse mirrors example_interfaces/srv/AddTwoInts_Response:
// { int64 sum }.
type AddTwoIntsResponse struct {
	Sum int64
}

func (*AddTwoIntsResponse) TypeName() string { return "example_interfaces/srv/AddTwoInts_Response" }

func (m *AddTwoIntsResponse) EncodeCDR() []byte {
	w := cdr.NewWriter()
	w.WriteInt64(m.Sum)
	return w.Bytes()
}

func DecodeAddTwoIntsResponse(buf []byte) (*AddTwoIntsResponse, error) {
	r, err := cdr.NewReader(buf)
	if err != nil {
		return nil, err
	}
	sum, err := r.ReadInt64()
	if err != nil {
		return nil, err
	}
	return &AddTwoIntsResponse{Sum: sum}, nil
}

// AddTwoIntsTypeHash is the RIHS01 hash of the three-reference service
// document (request, response, synthesized event), as typedesc.BuildService
// would compute it from the parsed .srv definition.
const AddTwoIntsTypeHash = "RIHS01_83cf933b6c5d5614e7c3d35ee05aeca9e7cddba038d6c09864b8cdab574c9f41"
