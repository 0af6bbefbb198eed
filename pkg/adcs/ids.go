// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

import (
	"sort"
	"strconv"
	"strings"
)

// Common telecommand IDs
const (
	IDReset                      = 1
	IDSetUnixTime                = 2
	IDSetCacheEnabled            = 3
	IDResetLogPointer            = 4
	IDAdvanceLogPointer          = 5
	IDResetBootRegisters         = 6
	IDSetSRAMScrubSize           = 8
	IDSetUnixTimeSaveConfig      = 9
	IDFormatSDCard               = 33
	IDEraseFile                  = 108
	IDLoadFileDownloadBlock      = 112
	IDAdvanceFileListReadPointer = 113
	IDInitiateFileUpload         = 114
	IDFileUploadPacket           = 115
	IDFinalizeUploadBlock        = 116
	IDResetUploadBlock           = 117
	IDResetFileListReadPointer   = 118
	IDInitiateDownloadBurst      = 119
	IDSetHoleMap                 = 120 // 120..127 for hole maps 1..8
)

// Bootloader telecommand IDs
const (
	IDClearErrFlags            = 7
	IDSetBootIndex             = 100
	IDRunSelectedProgram       = 101
	IDReadProgramInfo          = 102
	IDCopyProgramInternalFlash = 103
)

// ACP telecommand IDs
const (
	IDDeployMagnetometerBoom  = 7
	IDSetEnabledState         = 10
	IDSetPowerControl         = 11
	IDClearLatchedErrs        = 12
	IDSetAttitudeCtrlMode     = 13
	IDSetAttitudeEstimateMode = 14
	IDSetAttitudeAngle        = 15
	IDSetMagnetorquerOutput   = 16
	IDSetWheelSpeed           = 17
	IDTriggerADCSLoop         = 18
	IDTriggerADCSLoopSim      = 19
	IDSetMTQConfig            = 21
	IDSetRWConfig             = 22
	IDSetRateGyroConfig       = 23
	IDSetMTMConfig            = 27 // 27 for MTM1, 28 for MTM2
	IDSetASGP4RunMode         = 31
	IDTriggerASGP4            = 32
	IDSetInertialRef          = 34
	IDSetDetumbleConfig       = 38
	IDSetYWheelConfig         = 39
	IDSetRWheelConfig         = 40
	IDSetTrackingConfig       = 41
	IDSetMoIMatrix            = 42
	IDSetSGP4OrbitParams      = 45
	IDSetTrackController      = 55
	IDSetMTMOpMode            = 56
	IDConvertToJPG            = 57
	IDSaveConfig              = 63
	IDSaveOrbitParams         = 64
	IDSaveImage               = 80
	IDSetLogConfig            = 104
)

// Telemetry IDs
const (
	IDGetNodeIdentification        = 128
	IDGetBootProgramStat           = 129
	IDGetBootIndex                 = 130
	IDGetCacheEnabled              = 131
	IDGetBootloaderState           = 132
	IDGetJPGConversionProgress     = 133
	IDGetSRAMScrubSize             = 134
	IDGetCubeACPState              = 135
	IDGetUnixTime                  = 140
	IDGetLastLoggedEvent           = 141
	IDGetSRAMLatchupCount          = 142
	IDGetEDACErrCount              = 143
	IDGetCommsStat                 = 144
	IDGetUnixTimeSaveConfig        = 145
	IDGetLogConfig                 = 147 // 147 for log 1, 148 for log 2
	IDGetSGP4OrbitParams           = 150
	IDGetCurrentState              = 190
	IDGetMeasurements              = 191
	IDGetActuator                  = 192
	IDGetEstimation                = 193
	IDGetRawSensor                 = 194
	IDGetPowerTemp                 = 195
	IDGetExecutionTimes            = 196
	IDGetPowerControl              = 197
	IDGetAttitudeAngle             = 199
	IDGetTrackController           = 200
	IDGetMTMConfig                 = 201 // 201 for MTM1, 202 for MTM2
	IDGetRawGPS                    = 210
	IDGetStarTracker               = 211
	IDGetMTM2Measurements          = 215
	IDGetACPLoopStat               = 220
	IDGetImageSaveProgress         = 221
	IDGetASGP4                     = 228
	IDGetProgramInfo               = 232
	IDGetCopyInternalFlashProgress = 233
	IDGetSDFormatProgress          = 234
	IDGetInertialRef               = 238
	IDGetTCAck                     = 240
	IDGetFileDownloadBuffer        = 241
	IDGetFileDownloadBlockStat     = 242
	IDGetFileInfo                  = 243
	IDGetInitUploadStat            = 244
	IDGetFinalizeUploadStat        = 245
	IDGetUploadCRC16               = 246
	IDGetHoleMap                   = 247 // 247..254 for hole maps 1..8
)

// Telemetry payload lengths
const (
	LenNodeIdentification        = 8
	LenBootProgramStat           = 6
	LenBootIndex                 = 2
	LenCacheEnabled              = 1
	LenBootloaderState           = 6
	LenJPGConversionProgress     = 3
	LenSRAMScrubSize             = 2
	LenCubeACPState              = 1
	LenUnixTime                  = 6
	LenLastLoggedEvent           = 6
	LenSRAMLatchupCount          = 4
	LenEDACErrCount              = 6
	LenCommsStat                 = 6
	LenUnixTimeSaveConfig        = 2
	LenLogConfig                 = 13
	LenSGP4OrbitParams           = 64
	LenCurrentState              = 54
	LenMeasurements              = 72
	LenActuator                  = 12
	LenEstimation                = 42
	LenRawSensor                 = 34
	LenPowerTemp                 = 38
	LenExecutionTimes            = 8
	LenPowerControl              = 3
	LenAttitudeAngle             = 6
	LenTrackController           = 6
	LenMTMConfig                 = 30
	LenRawGPS                    = 36
	LenStarTracker               = 54
	LenMTM2Measurements          = 6
	LenACPLoopStat               = 3
	LenImageSaveProgress         = 2
	LenASGP4                     = 33
	LenProgramInfo               = 8
	LenCopyInternalFlashProgress = 1
	LenSDFormatProgress          = 1
	LenInertialRef               = 6
	LenTCAck                     = 4
	LenFileDownloadBuffer        = 22
	LenFileDownloadBlockStat     = 5
	LenFileInfo                  = 12
	LenInitUploadStat            = 1
	LenFinalizeUploadStat        = 1
	LenUploadCRC16               = 2
	LenHoleMap                   = 16
)

// Kind distinguishes telecommands from telemetry requests.
type Kind uint8

// Kind values
const (
	KindTelecommand Kind = iota
	KindTelemetry
)

// String returns "TC" or "TM".
func (k Kind) String() string {
	if k == KindTelemetry {
		return "TM"
	}
	return "TC"
}

// CommandInfo describes one entry of the vendor command/telemetry table.
// Length is the full telecommand length including the ID byte, or the
// telemetry payload length.
type CommandInfo struct {
	Name   string
	ID     uint8
	Kind   Kind
	Length int
}

var commandTable = []CommandInfo{
	{"reset", IDReset, KindTelecommand, 2},
	{"set_unix_time", IDSetUnixTime, KindTelecommand, 7},
	{"set_cache_enabled", IDSetCacheEnabled, KindTelecommand, 2},
	{"reset_log_pointer", IDResetLogPointer, KindTelecommand, 1},
	{"advance_log_pointer", IDAdvanceLogPointer, KindTelecommand, 1},
	{"reset_boot_registers", IDResetBootRegisters, KindTelecommand, 1},
	{"clear_err_flags", IDClearErrFlags, KindTelecommand, 1},
	{"deploy_magnetometer_boom", IDDeployMagnetometerBoom, KindTelecommand, 2},
	{"set_sram_scrub_size", IDSetSRAMScrubSize, KindTelecommand, 3},
	{"set_unix_time_save_config", IDSetUnixTimeSaveConfig, KindTelecommand, 3},
	{"set_enabled_state", IDSetEnabledState, KindTelecommand, 2},
	{"set_power_control", IDSetPowerControl, KindTelecommand, 4},
	{"clear_latched_errs", IDClearLatchedErrs, KindTelecommand, 2},
	{"set_attitude_ctrl_mode", IDSetAttitudeCtrlMode, KindTelecommand, 4},
	{"set_attitude_estimate_mode", IDSetAttitudeEstimateMode, KindTelecommand, 2},
	{"set_attitude_angle", IDSetAttitudeAngle, KindTelecommand, 7},
	{"set_magnetorquer_output", IDSetMagnetorquerOutput, KindTelecommand, 7},
	{"set_wheel_speed", IDSetWheelSpeed, KindTelecommand, 7},
	{"trigger_adcs_loop", IDTriggerADCSLoop, KindTelecommand, 1},
	{"trigger_adcs_loop_sim", IDTriggerADCSLoopSim, KindTelecommand, 1 + simSensorSize},
	{"set_mtq_config", IDSetMTQConfig, KindTelecommand, 4},
	{"set_rw_config", IDSetRWConfig, KindTelecommand, 5},
	{"set_rate_gyro_config", IDSetRateGyroConfig, KindTelecommand, 11},
	{"set_mtm1_config", IDSetMTMConfig, KindTelecommand, 31},
	{"set_mtm2_config", IDSetMTMConfig + 1, KindTelecommand, 31},
	{"set_asgp4_run_mode", IDSetASGP4RunMode, KindTelecommand, 2},
	{"trigger_asgp4", IDTriggerASGP4, KindTelecommand, 1},
	{"format_sd_card", IDFormatSDCard, KindTelecommand, 2},
	{"set_inertial_ref", IDSetInertialRef, KindTelecommand, 7},
	{"set_detumble_config", IDSetDetumbleConfig, KindTelecommand, 15},
	{"set_ywheel_config", IDSetYWheelConfig, KindTelecommand, 21},
	{"set_rwheel_config", IDSetRWheelConfig, KindTelecommand, 14},
	{"set_tracking_config", IDSetTrackingConfig, KindTelecommand, 14},
	{"set_moi_matrix", IDSetMoIMatrix, KindTelecommand, 25},
	{"set_sgp4_orbit_params", IDSetSGP4OrbitParams, KindTelecommand, 1 + 8*sgp4ElementCount},
	{"set_track_controller", IDSetTrackController, KindTelecommand, 7},
	{"set_mtm_op_mode", IDSetMTMOpMode, KindTelecommand, 2},
	{"convert_to_jpg", IDConvertToJPG, KindTelecommand, 4},
	{"save_config", IDSaveConfig, KindTelecommand, 1},
	{"save_orbit_params", IDSaveOrbitParams, KindTelecommand, 1},
	{"save_image", IDSaveImage, KindTelecommand, 3},
	{"set_boot_index", IDSetBootIndex, KindTelecommand, 2},
	{"run_selected_program", IDRunSelectedProgram, KindTelecommand, 1},
	{"read_program_info", IDReadProgramInfo, KindTelecommand, 2},
	{"copy_program_internal_flash", IDCopyProgramInternalFlash, KindTelecommand, 3},
	{"set_log_config", IDSetLogConfig, KindTelecommand, 5 + logFlagBytes},
	{"erase_file", IDEraseFile, KindTelecommand, 4},
	{"load_file_download_block", IDLoadFileDownloadBlock, KindTelecommand, 9},
	{"advance_file_list_read_pointer", IDAdvanceFileListReadPointer, KindTelecommand, 1},
	{"initiate_file_upload", IDInitiateFileUpload, KindTelecommand, 3},
	{"file_upload_packet", IDFileUploadPacket, KindTelecommand, 3 + uploadChunkSize},
	{"finalize_upload_block", IDFinalizeUploadBlock, KindTelecommand, 8},
	{"reset_upload_block", IDResetUploadBlock, KindTelecommand, 1},
	{"reset_file_list_read_pointer", IDResetFileListReadPointer, KindTelecommand, 1},
	{"initiate_download_burst", IDInitiateDownloadBurst, KindTelecommand, 3},

	{"node_identification", IDGetNodeIdentification, KindTelemetry, LenNodeIdentification},
	{"boot_program_stat", IDGetBootProgramStat, KindTelemetry, LenBootProgramStat},
	{"boot_index", IDGetBootIndex, KindTelemetry, LenBootIndex},
	{"cache_enabled", IDGetCacheEnabled, KindTelemetry, LenCacheEnabled},
	{"bootloader_state", IDGetBootloaderState, KindTelemetry, LenBootloaderState},
	{"jpg_conversion_progress", IDGetJPGConversionProgress, KindTelemetry, LenJPGConversionProgress},
	{"sram_scrub_size", IDGetSRAMScrubSize, KindTelemetry, LenSRAMScrubSize},
	{"cubeacp_state", IDGetCubeACPState, KindTelemetry, LenCubeACPState},
	{"unix_time", IDGetUnixTime, KindTelemetry, LenUnixTime},
	{"last_logged_event", IDGetLastLoggedEvent, KindTelemetry, LenLastLoggedEvent},
	{"sram_latchup_count", IDGetSRAMLatchupCount, KindTelemetry, LenSRAMLatchupCount},
	{"edac_err_count", IDGetEDACErrCount, KindTelemetry, LenEDACErrCount},
	{"comms_stat", IDGetCommsStat, KindTelemetry, LenCommsStat},
	{"unix_time_save_config", IDGetUnixTimeSaveConfig, KindTelemetry, LenUnixTimeSaveConfig},
	{"log_config_1", IDGetLogConfig, KindTelemetry, LenLogConfig},
	{"log_config_2", IDGetLogConfig + 1, KindTelemetry, LenLogConfig},
	{"sgp4_orbit_params", IDGetSGP4OrbitParams, KindTelemetry, LenSGP4OrbitParams},
	{"current_state", IDGetCurrentState, KindTelemetry, LenCurrentState},
	{"measurements", IDGetMeasurements, KindTelemetry, LenMeasurements},
	{"actuator", IDGetActuator, KindTelemetry, LenActuator},
	{"estimation", IDGetEstimation, KindTelemetry, LenEstimation},
	{"raw_sensor", IDGetRawSensor, KindTelemetry, LenRawSensor},
	{"power_temp", IDGetPowerTemp, KindTelemetry, LenPowerTemp},
	{"execution_times", IDGetExecutionTimes, KindTelemetry, LenExecutionTimes},
	{"power_control", IDGetPowerControl, KindTelemetry, LenPowerControl},
	{"attitude_angle", IDGetAttitudeAngle, KindTelemetry, LenAttitudeAngle},
	{"track_controller", IDGetTrackController, KindTelemetry, LenTrackController},
	{"mtm1_config", IDGetMTMConfig, KindTelemetry, LenMTMConfig},
	{"mtm2_config", IDGetMTMConfig + 1, KindTelemetry, LenMTMConfig},
	{"raw_gps", IDGetRawGPS, KindTelemetry, LenRawGPS},
	{"star_tracker", IDGetStarTracker, KindTelemetry, LenStarTracker},
	{"mtm2_measurements", IDGetMTM2Measurements, KindTelemetry, LenMTM2Measurements},
	{"acp_loop_stat", IDGetACPLoopStat, KindTelemetry, LenACPLoopStat},
	{"image_save_progress", IDGetImageSaveProgress, KindTelemetry, LenImageSaveProgress},
	{"asgp4", IDGetASGP4, KindTelemetry, LenASGP4},
	{"program_info", IDGetProgramInfo, KindTelemetry, LenProgramInfo},
	{"copy_internal_flash_progress", IDGetCopyInternalFlashProgress, KindTelemetry, LenCopyInternalFlashProgress},
	{"sd_format_progress", IDGetSDFormatProgress, KindTelemetry, LenSDFormatProgress},
	{"inertial_ref", IDGetInertialRef, KindTelemetry, LenInertialRef},
	{"tc_ack", IDGetTCAck, KindTelemetry, LenTCAck},
	{"file_download_buffer", IDGetFileDownloadBuffer, KindTelemetry, LenFileDownloadBuffer},
	{"file_download_block_stat", IDGetFileDownloadBlockStat, KindTelemetry, LenFileDownloadBlockStat},
	{"file_info", IDGetFileInfo, KindTelemetry, LenFileInfo},
	{"init_upload_stat", IDGetInitUploadStat, KindTelemetry, LenInitUploadStat},
	{"finalize_upload_stat", IDGetFinalizeUploadStat, KindTelemetry, LenFinalizeUploadStat},
	{"upload_crc16", IDGetUploadCRC16, KindTelemetry, LenUploadCRC16},
}

// Lookup tables built once from commandTable; never mutated afterwards.
var (
	commandsByName map[string]CommandInfo
	namesByID      [2]map[uint8][]string
)

func init() {
	for i := 1; i <= holeMapCount; i++ {
		commandTable = append(commandTable,
			CommandInfo{holeMapName("set_hole_map", i), uint8(IDSetHoleMap + i - 1), KindTelecommand, 1 + holeMapSize},
			CommandInfo{holeMapName("hole_map", i), uint8(IDGetHoleMap + i - 1), KindTelemetry, LenHoleMap},
		)
	}

	commandsByName = make(map[string]CommandInfo, len(commandTable))
	namesByID[KindTelecommand] = make(map[uint8][]string)
	namesByID[KindTelemetry] = make(map[uint8][]string)
	for _, c := range commandTable {
		commandsByName[c.Name] = c
		namesByID[c.Kind][c.ID] = append(namesByID[c.Kind][c.ID], c.Name)
	}
}

func holeMapName(prefix string, n int) string {
	return prefix + "_" + strconv.Itoa(n)
}

// LookupCommand returns the table entry for a symbolic name.
func LookupCommand(name string) (CommandInfo, bool) {
	c, ok := commandsByName[name]
	return c, ok
}

// CommandID returns the numeric ID for a symbolic name.
func CommandID(name string) (uint8, bool) {
	c, ok := commandsByName[name]
	return c.ID, ok
}

// Commands returns a copy of the table sorted by kind and ID.
func Commands() []CommandInfo {
	out := make([]CommandInfo, len(commandTable))
	copy(out, commandTable)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FormatID returns the upper-case name for an ID. IDs shared between the
// bootloader and the application (TC 7) are joined with "/".
func FormatID(kind Kind, id uint8) string {
	names, ok := namesByID[kind][id]
	if !ok {
		return "UNKNOWN"
	}
	return strings.ToUpper(strings.Join(names, "/"))
}
