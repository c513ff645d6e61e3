package listproto

import (
	"fmt"
	"strconv"
	"strings"
)

// Constants holds the label constants spec'd for key construction, exposed
// read-only via (*Engine).GetConstants.
type Constants struct {
	// SummarySuffix is appended to a list id to form its summary key.
	SummarySuffix string
	// PageKeyFormat documents the shape of a data page key: "<listId>_<pageNumber>".
	PageKeyFormat string
}

const (
	summarySuffix = "_summary"

	// dataListAttr is the kv.Item attribute holding a page's values.
	dataListAttr = "data_list"
	// currentPageAttr is the kv.Item attribute holding the summary's tail pointer.
	currentPageAttr = "currentPage"

	schemaVersion = 1
)

func constants() Constants {
	return Constants{
		SummarySuffix: summarySuffix,
		PageKeyFormat: "<listId>_<pageNumber>",
	}
}

// EncodeListID validates that listID can be round-tripped unambiguously
// through summaryKey/pageKey/DecodeKey: it must not itself end in the
// summary suffix or in an underscore followed only by digits, since those
// are exactly the suffixes summaryKey and pageKey append. Page numbers are
// always parsed from the terminal "_"-delimited segment of a key, so a
// listID ending that way would collide with a real summary or page key.
func EncodeListID(listID string) (string, error) {
	if listID == "" {
		return "", fmt.Errorf("listproto: list id must not be empty")
	}
	if strings.HasSuffix(listID, summarySuffix) {
		return "", fmt.Errorf("listproto: list id %q must not end in %q", listID, summarySuffix)
	}
	if idx := strings.LastIndex(listID, "_"); idx >= 0 && isAllDigits(listID[idx+1:]) {
		return "", fmt.Errorf("listproto: list id %q must not end in \"_<digits>\"", listID)
	}
	return listID, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func summaryKey(listID string) string {
	return listID + summarySuffix
}

func pageKey(listID string, pageNumber int64) string {
	return listID + "_" + strconv.FormatInt(pageNumber, 10)
}

// DecodeKey splits a key produced by summaryKey/pageKey back into its list
// id and, for a data page key, its page number. The terminal "_"-delimited
// segment decides the case: the literal "summary" means a summary key, an
// all-digits segment means a data page key at that page number.
func DecodeKey(key string) (listID string, pageNumber int64, isSummary bool, err error) {
	idx := strings.LastIndex(key, "_")
	if idx < 0 {
		return "", 0, false, fmt.Errorf("listproto: key %q has no \"_\"-delimited suffix", key)
	}
	prefix, suffix := key[:idx], key[idx+1:]
	if suffix == "summary" {
		return prefix, 0, true, nil
	}
	if !isAllDigits(suffix) {
		return "", 0, false, fmt.Errorf("listproto: key %q has neither a summary nor a numeric page suffix", key)
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return "", 0, false, fmt.Errorf("listproto: key %q has an unparsable page number: %w", key, err)
	}
	return prefix, n, false, nil
}
