/*
   Copyright 2025 The DIRPX Authors

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

package grpcx

import (
	"context"
	"errors"
	"net"
	"reflect"
	"testing"

	"dirpx.dev/opresult"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/metrics"
	"dirpx.dev/opresult/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	gstatus "google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

const getMethod = "/opresult.test.People/Get"

// peopleDesc is a hand-written service with a single Empty -> Empty method
// whose handler fails with the error stored in the server value.
var peopleDesc = grpc.ServiceDesc{
	ServiceName: "opresult.test.People",
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{{
		MethodName: "Get",
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(emptypb.Empty)
			if err := dec(in); err != nil {
				return nil, err
			}
			h := func(context.Context, any) (any, error) { return nil, srv.(*people).err }
			if interceptor == nil {
				return h(ctx, in)
			}
			return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: getMethod}, h)
		},
	}},
}

type people struct{ err error }

func dial(t *testing.T, handlerErr error, icpt grpc.UnaryServerInterceptor) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(icpt))
	srv.RegisterService(&peopleDesc, &people{err: handlerErr})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invoke(conn *grpc.ClientConn) error {
	return conn.Invoke(context.Background(), getMethod, &emptypb.Empty{}, &emptypb.Empty{})
}

func TestInterceptor_ValidationRoundTrip(t *testing.T) {
	o := opresult.MustNew(opresult.WithErrorResponseFormat(validation.FlatList))
	state := validation.NewState().Add("Email", "Required").Add("Age", "Must be positive")
	conn := dial(t, opresult.Invalid(state), UnaryServerInterceptor(o, nil))

	err := invoke(conn)
	if gstatus.Code(err) != codes.InvalidArgument {
		t.Fatalf("code = %v", gstatus.Code(err))
	}

	got, ok := ExtractViolations(err)
	if !ok {
		t.Fatal("BadRequest details missing")
	}
	if !reflect.DeepEqual(got.Entries(), state.Entries()) {
		t.Fatalf("violations = %+v", got.Entries())
	}

	d, ok := ExtractProblem(err)
	if !ok {
		t.Fatal("problem details missing")
	}
	if d.Status != 400 || d.Instance != getMethod || d.Errors.Format() != validation.FlatList || d.Errors.Len() != 2 {
		t.Fatalf("problem = %+v", d)
	}

	info, ok := ExtractErrorInfo(err)
	if !ok || info.GetReason() != "validation" || info.GetDomain() != DefaultDomain {
		t.Fatalf("error info = %v", info)
	}
}

func TestInterceptor_Codes(t *testing.T) {
	tests := []struct {
		name string
		opts []opresult.Option
		err  error
		want codes.Code
		msg  string
	}{
		{"not found", nil, opresult.E(failure.NotFound, "person 7 does not exist"), codes.NotFound, "person 7 does not exist"},
		{"override", []opresult.Option{opresult.WithGRPCCode(failure.Conflict, codes.AlreadyExists)},
			opresult.E(failure.Conflict, "email taken"), codes.AlreadyExists, "email taken"},
		{"foreign error hides text", nil, errors.New("pq: password authentication failed"), codes.Internal, "An unexpected error occurred."},
		{"deadline", nil, context.DeadlineExceeded, codes.Unavailable, "The operation timed out."},
		{"status passthrough", nil, gstatus.Error(codes.FailedPrecondition, "as is"), codes.FailedPrecondition, "as is"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			icpt := UnaryServerInterceptor(opresult.MustNew(tt.opts...), nil)
			_, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: getMethod},
				func(context.Context, any) (any, error) { return nil, tt.err })
			st, _ := gstatus.FromError(err)
			if st.Code() != tt.want || st.Message() != tt.msg {
				t.Fatalf("status = %v %q, want %v %q", st.Code(), st.Message(), tt.want, tt.msg)
			}
		})
	}
}

func TestInterceptor_SuccessAndOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.MustNewRecorder(reg)
	meta := func(context.Context, *grpc.UnaryServerInfo) opresult.Meta {
		return opresult.Meta{Instance: "people/7", RequestID: "req-7"}
	}
	icpt := UnaryServerInterceptor(opresult.MustNew(), meta, WithDomain("people.example.com"), WithMetrics(rec))

	resp, err := icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: getMethod},
		func(context.Context, any) (any, error) { return "ok", nil })
	if err != nil || resp != "ok" {
		t.Fatalf("success = %v, %v", resp, err)
	}

	_, err = icpt(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: getMethod},
		func(context.Context, any) (any, error) { return nil, opresult.E(failure.Forbidden, "no") })
	info, _ := ExtractErrorInfo(err)
	if info.GetDomain() != "people.example.com" {
		t.Fatalf("domain = %q", info.GetDomain())
	}
	d, _ := ExtractProblem(err)
	if d.TraceID != "req-7" || d.Instance != "people/7" {
		t.Fatalf("problem = %+v", d)
	}
	n, err := testutil.GatherAndCount(reg, "opresult_problem_responses_total")
	if err != nil || n != 1 {
		t.Fatalf("series = %d, err = %v", n, err)
	}
}

func TestExtract_NonStatusErrors(t *testing.T) {
	if _, ok := ExtractViolations(nil); ok {
		t.Fatal("nil error has no violations")
	}
	if _, ok := ExtractProblem(errors.New("x")); ok {
		t.Fatal("plain error has no problem")
	}
	if _, ok := ExtractErrorInfo(gstatus.Error(codes.NotFound, "x")); ok {
		t.Fatal("status without details has no error info")
	}
}
