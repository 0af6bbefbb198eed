// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"fmt"
	"sort"
)

// DecodeFunc turns a raw telemetry payload into its typed structure
type DecodeFunc func(b []byte) any

// TelemetryDef binds a telemetry table entry to its decoder
type TelemetryDef struct {
	CommandInfo
	Decode DecodeFunc
}

var decoders = map[string]DecodeFunc{
	"node_identification":          func(b []byte) any { return DecodeNodeIdentification(b) },
	"boot_program_stat":            func(b []byte) any { return DecodeBootProgramStat(b) },
	"boot_index":                   func(b []byte) any { return DecodeBootIndex(b) },
	"cache_enabled":                func(b []byte) any { return b[0]&0x01 != 0 },
	"bootloader_state":             func(b []byte) any { return DecodeBootloaderState(b) },
	"jpg_conversion_progress":      func(b []byte) any { return DecodeJPGConversionProgress(b) },
	"sram_scrub_size":              func(b []byte) any { return uint16At(b) },
	"cubeacp_state":                func(b []byte) any { return DecodeCubeACPState(b) },
	"unix_time":                    func(b []byte) any { return DecodeUnixTime(b) },
	"last_logged_event":            func(b []byte) any { return DecodeLastLoggedEvent(b) },
	"sram_latchup_count":           func(b []byte) any { return DecodeSRAMLatchupCount(b) },
	"edac_err_count":               func(b []byte) any { return DecodeEDACErrCount(b) },
	"comms_stat":                   func(b []byte) any { return DecodeCommsStat(b) },
	"unix_time_save_config":        func(b []byte) any { return DecodeUnixTimeSaveConfig(b) },
	"log_config_1":                 func(b []byte) any { return DecodeLogConfig(b) },
	"log_config_2":                 func(b []byte) any { return DecodeLogConfig(b) },
	"sgp4_orbit_params":            func(b []byte) any { return DecodeSGP4OrbitParams(b) },
	"current_state":                func(b []byte) any { return DecodeCurrentState(b) },
	"measurements":                 func(b []byte) any { return DecodeMeasurements(b) },
	"actuator":                     func(b []byte) any { return DecodeActuator(b) },
	"estimation":                   func(b []byte) any { return DecodeEstimation(b) },
	"raw_sensor":                   func(b []byte) any { return DecodeRawSensor(b) },
	"power_temp":                   func(b []byte) any { return DecodePowerTemp(b) },
	"execution_times":              func(b []byte) any { return DecodeExecutionTimes(b) },
	"power_control":                func(b []byte) any { return DecodePowerControl(b) },
	"attitude_angle":               func(b []byte) any { return DecodeAttitudeAngle(b) },
	"track_controller":             func(b []byte) any { return DecodeTrackController(b) },
	"mtm1_config":                  func(b []byte) any { return DecodeMTMConfig(b) },
	"mtm2_config":                  func(b []byte) any { return DecodeMTMConfig(b) },
	"raw_gps":                      func(b []byte) any { return DecodeRawGPS(b) },
	"star_tracker":                 func(b []byte) any { return DecodeStarTracker(b) },
	"mtm2_measurements":            func(b []byte) any { return DecodeMTM2Measurements(b) },
	"acp_loop_stat":                func(b []byte) any { return DecodeACPLoopStat(b) },
	"image_save_progress":          func(b []byte) any { return DecodeImageSaveProgress(b) },
	"asgp4":                        func(b []byte) any { return DecodeASGP4(b) },
	"program_info":                 func(b []byte) any { return DecodeProgramInfo(b) },
	"copy_internal_flash_progress": func(b []byte) any { return DecodeCopyInternalFlashProgress(b) },
	"sd_format_progress":           func(b []byte) any { return DecodeSDFormatProgress(b) },
	"inertial_ref":                 func(b []byte) any { return DecodeInertialRef(b) },
	"tc_ack":                       func(b []byte) any { return DecodeTCAck(b) },
	"file_download_buffer":         func(b []byte) any { return DecodeFileDownloadBuffer(b) },
	"file_download_block_stat":     func(b []byte) any { return DecodeFileDownloadBlockStat(b) },
	"file_info":                    func(b []byte) any { return DecodeFileInfo(b) },
	"init_upload_stat":             func(b []byte) any { return DecodeUploadStat(b) },
	"finalize_upload_stat":         func(b []byte) any { return DecodeUploadStat(b) },
	"upload_crc16":                 func(b []byte) any { return uint16At(b) },
}

// LookupTelemetry returns the definition for a telemetry name.
// Hole maps are registered as hole_map_1 .. hole_map_8.
func LookupTelemetry(name string) (TelemetryDef, bool) {
	info, ok := LookupCommand(name)
	if !ok || info.Kind != KindTelemetry {
		return TelemetryDef{}, false
	}
	decode, ok := decoders[name]
	if !ok {
		decode = func(b []byte) any { return DecodeHoleMap(b) }
	}
	return TelemetryDef{CommandInfo: info, Decode: decode}, true
}

// TelemetryNames returns every telemetry name in ID order.
func TelemetryNames() []string {
	var names []string
	for _, c := range Commands() {
		if c.Kind == KindTelemetry {
			names = append(names, c.Name)
		}
	}
	return names
}

// SortedTelemetryNames returns every telemetry name in lexical order.
func SortedTelemetryNames() []string {
	names := TelemetryNames()
	sort.Strings(names)
	return names
}

// Request reads named telemetry and returns the raw payload together with
// its decoded structure.
func (c *Client) Request(name string) ([]byte, any, error) {
	def, ok := LookupTelemetry(name)
	if !ok {
		return nil, nil, fmt.Errorf("unknown telemetry %q", name)
	}
	raw, err := c.Telemetry(def.ID, def.Length)
	if err != nil {
		return nil, nil, err
	}
	return raw, def.Decode(raw), nil
}
