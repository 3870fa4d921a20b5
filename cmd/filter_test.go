package cmd

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []int64
		wantErr bool
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "7", want: []int64{7}},
		{name: "spaces and blanks", in: " 1, 2,,3 ,", want: []int64{1, 2, 3}},
		{name: "keeps order and duplicates", in: "3,1,3", want: []int64{3, 1, 3}},
		{name: "not a number", in: "1,two", wantErr: true},
		{name: "float", in: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseIDs(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseIDs(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseIDs(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFilterFlagsCriteria(t *testing.T) {
	f := filterFlags{
		group:             4,
		contacts:          "1, 2",
		influenceMin:      3,
		relationshipTypes: "9",
		relationshipOnly:  true,
	}
	c, err := f.criteria()
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	if c.GroupID == nil || *c.GroupID != 4 {
		t.Errorf("GroupID = %v, want 4", c.GroupID)
	}
	if !reflect.DeepEqual(c.ContactIDs, []int64{1, 2}) {
		t.Errorf("ContactIDs = %v", c.ContactIDs)
	}
	if !reflect.DeepEqual(c.RelationshipTypes, []int64{9}) {
		t.Errorf("RelationshipTypes = %v", c.RelationshipTypes)
	}
	if c.InfluenceMin != 3 || c.SupportMin != 0 || !c.RelationshipOnly {
		t.Errorf("unexpected criteria %+v", c)
	}
}

func TestFilterFlagsCriteria_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		flags filterFlags
		want  string
	}{
		{name: "influence too high", flags: filterFlags{influenceMin: 6}, want: "InfluenceMin"},
		{name: "negative support", flags: filterFlags{supportMin: -1}, want: "SupportMin"},
		{name: "negative group", flags: filterFlags{group: -2}, want: "GroupID"},
		{name: "zero contact", flags: filterFlags{contacts: "1,0"}, want: "ContactIDs"},
		{name: "bad type list", flags: filterFlags{relationshipTypes: "x"}, want: "--relationship-types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.criteria()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestTruncName(t *testing.T) {
	if got := truncName("short", 10); got != "short" {
		t.Errorf("truncName short = %q", got)
	}
	if got := truncName("abcdefghij", 4); got != "abcd..." {
		t.Errorf("truncName ascii = %q", got)
	}
	// "é" is two bytes; cutting inside it backs off to the previous rune
	if got := truncName("aé", 2); got != "a..." {
		t.Errorf("truncName utf8 = %q", got)
	}
}
