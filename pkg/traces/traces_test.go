package traces

import (
	"strings"
	"testing"
	"time"
)

type fakeRecord struct {
	name string
	at   time.Time
	rank int
}

func (r fakeRecord) Timestamp() time.Time { return r.at }
func (r fakeRecord) Rank() int            { return r.rank }

func TestSort(t *testing.T) {
	base := time.Date(2018, time.March, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		records []fakeRecord
		want    []string
	}{
		{
			name: "timestamp is the primary key",
			records: []fakeRecord{
				{name: "late", at: base.Add(time.Second), rank: RankStart},
				{name: "early", at: base, rank: RankEnd},
			},
			want: []string{"early", "late"},
		},
		{
			name: "rank breaks ties",
			records: []fakeRecord{
				{name: "end", at: base, rank: RankEnd},
				{name: "ordinary", at: base, rank: RankOrdinary},
				{name: "start", at: base, rank: RankStart},
			},
			want: []string{"start", "ordinary", "end"},
		},
		{
			name: "equal keys keep input order",
			records: []fakeRecord{
				{name: "first", at: base, rank: RankOrdinary},
				{name: "second", at: base, rank: RankOrdinary},
				{name: "third", at: base, rank: RankOrdinary},
			},
			want: []string{"first", "second", "third"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Sort(tt.records)
			got := make([]string, len(tt.records))
			for i, r := range tt.records {
				got[i] = r.name
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeDump(t *testing.T) {
	src := `{"hits":{"hits":[
		{"_id":"a","_source":{"k":1}},
		{"_id":"b","_source":{"k":2}}
	]}}`

	hits, err := DecodeDump(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeDump failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("decoded %d hits, want 2", len(hits))
	}
	if hits[0].ID != "a" || hits[1].ID != "b" {
		t.Errorf("hit ids = %q, %q", hits[0].ID, hits[1].ID)
	}
	if string(hits[0].Source) == "" {
		t.Error("hit source not captured")
	}
}

func TestDecodeDumpRejectsGarbage(t *testing.T) {
	if _, err := DecodeDump(strings.NewReader("not json")); err == nil {
		t.Fatal("DecodeDump accepted garbage")
	}
}
