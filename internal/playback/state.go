package playback

// CaptionState holds the caption sub-record of the playback state.
type CaptionState struct {
	Enabled bool   `json:"enabled"`
	Lang    string `json:"lang"`
}

// QualityState holds the quality sub-record of the playback state.
type QualityState struct {
	Target  string `json:"target"`
	Floor   string `json:"floor"`
	Ceiling string `json:"ceiling"`
	Lock    bool   `json:"lock"`
}

// State mirrors what the display client is believed to be doing. The mirror
// is best-effort: the display client may fail silently, so it can transiently
// disagree with reality. Invariant: Playing implies LastVideoID != nil.
type State struct {
	Playing     bool         `json:"playing"`
	LastURL     *string      `json:"lastUrl"`
	LastVideoID *string      `json:"lastVideoId"`
	Caption     CaptionState `json:"caption"`
	Quality     QualityState `json:"quality"`
}

// CaptionPatch carries partial caption updates; nil fields are untouched.
type CaptionPatch struct {
	Enabled *bool   `json:"enabled"`
	Lang    *string `json:"lang"`
}

// QualityPatch carries partial quality updates; nil fields are untouched.
type QualityPatch struct {
	Target  *string `json:"target"`
	Floor   *string `json:"floor"`
	Ceiling *string `json:"ceiling"`
	Lock    *bool   `json:"lock"`
}

// apply merges the patch into c, reporting whether anything changed.
func (c *CaptionState) apply(p *CaptionPatch) bool {
	if p == nil {
		return false
	}
	changed := false
	if p.Enabled != nil && *p.Enabled != c.Enabled {
		c.Enabled = *p.Enabled
		changed = true
	}
	if p.Lang != nil && *p.Lang != c.Lang {
		c.Lang = *p.Lang
		changed = true
	}
	return changed
}

// apply merges the patch into q, reporting whether anything changed.
func (q *QualityState) apply(p *QualityPatch) bool {
	if p == nil {
		return false
	}
	changed := false
	if p.Target != nil && *p.Target != q.Target {
		q.Target = *p.Target
		changed = true
	}
	if p.Floor != nil && *p.Floor != q.Floor {
		q.Floor = *p.Floor
		changed = true
	}
	if p.Ceiling != nil && *p.Ceiling != q.Ceiling {
		q.Ceiling = *p.Ceiling
		changed = true
	}
	if p.Lock != nil && *p.Lock != q.Lock {
		q.Lock = *p.Lock
		changed = true
	}
	return changed
}
