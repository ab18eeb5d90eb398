package server

import (
	"context"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/sitzungsdienst/internal/async"
	"github.com/joseph-ayodele/sitzungsdienst/internal/entity"
	"github.com/joseph-ayodele/sitzungsdienst/internal/repository"
	"github.com/joseph-ayodele/sitzungsdienst/internal/roster"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) Shutdown(context.Context) {}

func dial(t *testing.T, svc *RosterService) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(svc, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func call(t *testing.T, conn *grpc.ClientConn, method string, req map[string]any) (*structpb.Struct, error) {
	t.Helper()
	in, err := structpb.NewStruct(req)
	require.NoError(t, err)
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), method, in, out)
	return out, err
}

func page(tokens ...string) []any {
	out := make([]any, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
	}
	return out
}

var extractRequest = map[string]any{
	"pages": []any{
		page("Anfahrt", "Montag", "06.03.2023",
			"AG Freiburg", "08:30", "123 Js 456/23", "Mueller", "StA",
			"Seite", "1"),
		page("Anfahrt", "Dienstag", "07.03.2023",
			"LG Freiburg", "10:00", "222 Js 2/23", "Weber", "OAA"),
	},
}

func TestExtract(t *testing.T) {
	conn := dial(t, NewRosterService(nil, nil, nil, nil))

	out, err := call(t, conn, RosterServiceExtractMethod, extractRequest)
	require.NoError(t, err)

	got := out.AsMap()
	assert.Equal(t, "2023-03-06", got["from"])
	assert.Equal(t, "2023-03-07", got["to"])
	records := got["records"].([]any)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{
		"date":  "2023-03-06",
		"when":  "08:30",
		"who":   "StA Mueller",
		"where": "AG Freiburg",
		"what":  "123 Js 456/23",
	}, records[0])
}

func TestExtractWithQuery(t *testing.T) {
	conn := dial(t, NewRosterService(nil, nil, nil, nil))

	req := map[string]any{"pages": extractRequest["pages"], "query": []any{"weber"}}
	out, err := call(t, conn, RosterServiceExtractMethod, req)
	require.NoError(t, err)
	records := out.AsMap()["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "OAA Weber", records[0].(map[string]any)["who"])

	req["query"] = []any{"nobody"}
	out, err = call(t, conn, RosterServiceExtractMethod, req)
	require.NoError(t, err)
	assert.Empty(t, out.AsMap()["records"])
	assert.Equal(t, "", out.AsMap()["from"])
}

func TestExtractInvalidArgument(t *testing.T) {
	conn := dial(t, NewRosterService(nil, nil, nil, nil))

	for name, req := range map[string]map[string]any{
		"missing pages":    {},
		"pages not a list": {"pages": "Anfahrt"},
		"page not a list":  {"pages": []any{"Anfahrt"}},
		"token not string": {"pages": []any{[]any{"Anfahrt", 3.0}}},
		"query not list":   {"pages": []any{}, "query": "StA"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := call(t, conn, RosterServiceExtractMethod, req)
			assert.Equal(t, codes.InvalidArgument, status.Code(err), "err: %v", err)
		})
	}
}

func TestListAssignments(t *testing.T) {
	ctx := context.Background()
	conn := dial(t, NewRosterService(nil, nil, nil, nil))
	_, err := call(t, conn, RosterServiceListAssignmentsMethod, map[string]any{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	db, err := repository.Open(ctx, repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))
	runs := repository.NewRunRepository(db, nil)
	_, _, err = runs.SaveRun(ctx, &entity.Run{SourcePath: "kw10.pdf", ContentHash: "kw10"}, []roster.AssignmentRecord{
		{Date: "2023-03-06", When: "08:30", Who: "StA Mueller", Where: "AG Freiburg", What: "1 Js 1/23"},
		{Date: "2023-03-09", When: "09:00", Who: "Ref Braun", Where: "AG Lahr", What: ""},
	})
	require.NoError(t, err)

	conn = dial(t, NewRosterService(nil, runs, nil, nil))
	out, err := call(t, conn, RosterServiceListAssignmentsMethod, map[string]any{"from": "2023-03-07"})
	require.NoError(t, err)
	records := out.AsMap()["records"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "Ref Braun", records[0].(map[string]any)["who"])

	_, err = call(t, conn, RosterServiceListAssignmentsMethod, map[string]any{"to": "09.03.2023"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestSubmitFile(t *testing.T) {
	q := &recordingQueue{}
	conn := dial(t, NewRosterService(nil, nil, q, nil))

	out, err := call(t, conn, RosterServiceSubmitFileMethod, map[string]any{"path": "/srv/roster/kw10.pdf"})
	require.NoError(t, err)
	assert.Equal(t, true, out.AsMap()["accepted"])
	require.Len(t, q.jobs, 1)
	assert.Equal(t, "/srv/roster/kw10.pdf", q.jobs[0].Path)
	assert.Equal(t, q.jobs[0].TraceID, out.AsMap()["trace_id"])

	_, err = call(t, conn, RosterServiceSubmitFileMethod, map[string]any{"path": "/srv/roster/kw10.docx"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = call(t, conn, RosterServiceSubmitFileMethod, map[string]any{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealth(t *testing.T) {
	conn := dial(t, NewRosterService(nil, nil, nil, nil))
	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: RosterServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}
