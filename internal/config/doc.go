// Package config loads the replay tunables from JSON or YAML files.
//
// Fields are pointers so a file only needs to carry the values it
// overrides; the Get* accessors fall back to the defaults below.
//
//	smoothing_window          3
//	anchor_ceiling_meters     500
//	end_search_skip           50
//	validation_session_stride 10
//	validation_track_stride   5
//	corridor_margin_meters    5
//	max_off_track_fraction    0.2
//	frame_interval            16ms
package config
