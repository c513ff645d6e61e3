package listproto

import "testing"

func TestEncodeListIDRejectsAmbiguousSuffixes(t *testing.T) {
	cases := []struct {
		id      string
		wantErr bool
	}{
		{"orders", false},
		{"orders_2024", true},
		{"orders_summary", true},
		{"orders_2", true},
		{"", true},
	}
	for _, c := range cases {
		_, err := EncodeListID(c.id)
		if (err != nil) != c.wantErr {
			t.Errorf("EncodeListID(%q): wantErr=%v, got err=%v", c.id, c.wantErr, err)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	listID := "orders_2024"

	sKey := summaryKey(listID)
	gotList, _, isSummary, err := DecodeKey(sKey)
	if err != nil {
		t.Fatalf("DecodeKey(%q): unexpected error: %v", sKey, err)
	}
	if !isSummary || gotList != listID {
		t.Fatalf("DecodeKey(%q): expected summary key for %q, got list=%q isSummary=%v", sKey, listID, gotList, isSummary)
	}

	pKey := pageKey(listID, 7)
	gotList, gotPage, isSummary, err := DecodeKey(pKey)
	if err != nil {
		t.Fatalf("DecodeKey(%q): unexpected error: %v", pKey, err)
	}
	if isSummary || gotList != listID || gotPage != 7 {
		t.Fatalf("DecodeKey(%q): expected page 7 of %q, got list=%q page=%d isSummary=%v", pKey, listID, gotList, gotPage, isSummary)
	}
}
