package segmentation

import (
	"fmt"
	"sort"
	"strings"
)

// Assemble builds one Segment per distinct id in segIDs, in ascending id
// order. Timestamps are the min start and max end among members that have
// them, nil when none do. The label is the top-ranked topic, or
// "Segment <id>" when labels has nothing for the id.
func Assemble(recordingID string, sentences []Sentence, segIDs []int, labels map[int][]string) []Segment {
	var out []Segment
	for _, id := range distinctIDs(segIDs) {
		seg := Segment{RecordingID: recordingID, ID: id, SentenceIDs: []int{}}
		var texts []string
		for i, sid := range segIDs {
			if sid != id || i >= len(sentences) {
				continue
			}
			s := sentences[i]
			seg.SentenceIDs = append(seg.SentenceIDs, s.ID)
			texts = append(texts, strings.TrimSpace(s.Text))
			if s.StartS != nil && (seg.StartS == nil || *s.StartS < *seg.StartS) {
				seg.StartS = Float(*s.StartS)
			}
			if s.EndS != nil && (seg.EndS == nil || *s.EndS > *seg.EndS) {
				seg.EndS = Float(*s.EndS)
			}
		}
		if len(seg.SentenceIDs) == 0 {
			continue
		}
		seg.Text = strings.TrimSpace(strings.Join(texts, " "))
		if ranked := labels[id]; len(ranked) > 0 {
			seg.Label = ranked[0]
		} else {
			seg.Label = fmt.Sprintf("Segment %d", id)
		}
		out = append(out, seg)
	}
	return out
}

// distinctIDs returns the distinct values of segIDs in ascending order.
func distinctIDs(segIDs []int) []int {
	ids := append([]int(nil), segIDs...)
	sort.Ints(ids)
	var out []int
	for _, id := range ids {
		if len(out) == 0 || id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// members returns the indexes assigned to segment id.
func members(segIDs []int, id int) []int {
	var idx []int
	for i, sid := range segIDs {
		if sid == id {
			idx = append(idx, i)
		}
	}
	return idx
}
