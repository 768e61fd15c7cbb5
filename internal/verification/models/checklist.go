package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	dErrors "bankeu/pkg/domain-errors"
)

// ChecklistSize is the number of items on the verification questionnaire.
const ChecklistSize = 13

// ChecklistItem describes one questionnaire line.
type ChecklistItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ChecklistItems lists the questionnaire in display order.
var ChecklistItems = [ChecklistSize]ChecklistItem{
	{"q1", "Proposal ditandatangani kepala desa"},
	{"q2", "Kegiatan tercantum dalam RKPDes tahun berjalan"},
	{"q3", "Kegiatan selaras dengan RPJMDes"},
	{"q4", "RAB disusun sesuai standar harga kabupaten"},
	{"q5", "Gambar rencana dan desain tersedia"},
	{"q6", "Lokasi kegiatan jelas dan tidak dalam sengketa"},
	{"q7", "Volume kegiatan sesuai kebutuhan"},
	{"q8", "Foto kondisi nol persen terlampir"},
	{"q9", "Surat pernyataan kesanggupan swadaya terlampir"},
	{"q10", "Berita acara musyawarah desa terlampir"},
	{"q11", "Tidak tumpang tindih dengan sumber dana lain"},
	{"q12", "Rekening kas desa aktif"},
	{"q13", "Pertanggungjawaban bantuan tahun sebelumnya tuntas"},
}

func itemIndex(key string) (int, bool) {
	for i, item := range ChecklistItems {
		if item.Key == key {
			return i, true
		}
	}
	return 0, false
}

// Checklist holds one answer per item. A nil answer is not yet decided.
// It encodes as a JSON object keyed q1..q13.
type Checklist [ChecklistSize]*bool

// Clone copies the answers so the result shares no pointers with c.
func (c Checklist) Clone() Checklist {
	var out Checklist
	for i, v := range c {
		if v != nil {
			b := *v
			out[i] = &b
		}
	}
	return out
}

// Get returns the answer for key.
func (c Checklist) Get(key string) *bool {
	i, ok := itemIndex(key)
	if !ok {
		return nil
	}
	return c[i]
}

// AllTrue reports whether every item is answered true.
func (c Checklist) AllTrue() bool {
	return len(c.NotTrue()) == 0
}

// NotTrue lists the keys that are unanswered or false.
func (c Checklist) NotTrue() []string {
	var out []string
	for i, v := range c {
		if v == nil || !*v {
			out = append(out, ChecklistItems[i].Key)
		}
	}
	return out
}

func (c Checklist) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:", ChecklistItems[i].Key)
		switch {
		case v == nil:
			buf.WriteString("null")
		case *v:
			buf.WriteString("true")
		default:
			buf.WriteString("false")
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Checklist) UnmarshalJSON(data []byte) error {
	var raw map[string]*bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Checklist
	for key, v := range raw {
		i, ok := itemIndex(key)
		if !ok {
			return dErrors.Newf(dErrors.CodeValidation, "unknown checklist item %q", key)
		}
		out[i] = v
	}
	*c = out
	return nil
}

// Recommendation is a verifier's overall verdict.
type Recommendation string

const (
	RecommendationFeasible    Recommendation = "feasible"
	RecommendationRevise      Recommendation = "revise"
	RecommendationNotFeasible Recommendation = "not-feasible"
)

func ParseRecommendation(raw string) (Recommendation, error) {
	switch r := Recommendation(strings.TrimSpace(raw)); r {
	case RecommendationFeasible, RecommendationRevise, RecommendationNotFeasible:
		return r, nil
	default:
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown recommendation %q", raw)
	}
}

// ValidateRemarks rejects remarks for items that do not exist.
func ValidateRemarks(remarks map[string]string) error {
	for key := range remarks {
		if _, ok := itemIndex(key); !ok {
			return dErrors.Newf(dErrors.CodeValidation, "remark for unknown checklist item %q", key)
		}
	}
	return nil
}
