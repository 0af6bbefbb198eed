// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Thermoquad/adcsctl/pkg/adcs"
)

// clientFunc is one prepared exchange
type clientFunc func(*adcs.Client) error

// telecommand maps a command line onto a typed client call. build parses
// every argument up front so a bad argument never reaches the device.
type telecommand struct {
	usage string
	build func(p *argParser) clientFunc
}

//////////////////////////////////////////////////////////////
// Argument parsing
//////////////////////////////////////////////////////////////

// argParser consumes positional arguments and keeps the first error
type argParser struct {
	args []string
	pos  int
	err  error
}

func (p *argParser) next(name string) string {
	if p.err != nil {
		return ""
	}
	if p.pos >= len(p.args) {
		p.err = fmt.Errorf("missing argument <%s>", name)
		return ""
	}
	s := p.args[p.pos]
	p.pos++
	return s
}

func (p *argParser) fail(name string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid <%s>: %v", name, err)
	}
}

func (p *argParser) uint(name string, bits int) uint64 {
	s := p.next(name)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		p.fail(name, err)
	}
	return v
}

func (p *argParser) uint8(name string) uint8   { return uint8(p.uint(name, 8)) }
func (p *argParser) uint16(name string) uint16 { return uint16(p.uint(name, 16)) }
func (p *argParser) uint32(name string) uint32 { return uint32(p.uint(name, 32)) }

func (p *argParser) int16(name string) int16 {
	s := p.next(name)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(s, 0, 16)
	if err != nil {
		p.fail(name, err)
	}
	return int16(v)
}

func (p *argParser) float(name string) float64 {
	s := p.next(name)
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(name, err)
	}
	return v
}

func (p *argParser) float32(name string) float32 {
	return float32(p.float(name))
}

func (p *argParser) bool(name string) bool {
	s := p.next(name)
	if p.err != nil {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(name, err)
	}
	return v
}

func (p *argParser) xyz(name string) adcs.XYZ {
	return adcs.XYZ{X: p.float(name + "-x"), Y: p.float(name + "-y"), Z: p.float(name + "-z")}
}

func (p *argParser) xyz16(name string) adcs.XYZ16 {
	return adcs.XYZ16{X: p.int16(name + "-x"), Y: p.int16(name + "-y"), Z: p.int16(name + "-z")}
}

func (p *argParser) xyzu8(name string) adcs.XYZu8 {
	return adcs.XYZu8{X: p.uint8(name + "-x"), Y: p.uint8(name + "-y"), Z: p.uint8(name + "-z")}
}

// done rejects leftover arguments
func (p *argParser) done() error {
	if p.err == nil && p.pos < len(p.args) {
		p.err = fmt.Errorf("unexpected argument %q", p.args[p.pos])
	}
	return p.err
}

// parseTelecommand resolves name and its arguments into a prepared call
func parseTelecommand(name string, args []string) (clientFunc, error) {
	tc, ok := telecommands[name]
	if !ok {
		return nil, fmt.Errorf("unknown telecommand %q (see 'adcsctl list')", name)
	}
	p := &argParser{args: args}
	fn := tc.build(p)
	if err := p.done(); err != nil {
		return nil, fmt.Errorf("%s: %v\nusage: %s %s", name, err, name, tc.usage)
	}
	return fn, nil
}

// runTelecommandLine parses a space separated command line and executes it
func runTelecommandLine(s *session, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty command")
	}
	fn, err := parseTelecommand(fields[0], fields[1:])
	if err != nil {
		return fields[0], err
	}
	return fields[0], s.do(fn)
}

// formatStatusLine renders the acknowledged status of telecommand name
func formatStatusLine(name string, status adcs.Status) string {
	return fmt.Sprintf("%s: %s\n", strings.ToUpper(name), status.String())
}

// telecommandNames returns the dispatchable telecommands in lexical order
func telecommandNames() []string {
	names := make([]string, 0, len(telecommands))
	for name := range telecommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func noArgs(call clientFunc) telecommand {
	return telecommand{build: func(*argParser) clientFunc { return call }}
}

// mtmConfigCommand builds the configuration telecommand for magnetometer mtm
func mtmConfigCommand(mtm uint8) telecommand {
	return telecommand{
		usage: "<angle-x> <angle-y> <angle-z> <offset-x> <offset-y> <offset-z> <9 sensitivity values, row-major>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.MTMConfig{
				MountingAngles: p.xyz("angle"),
				ChannelOffsets: p.xyz("offset"),
			}
			for i := range cfg.Sensitivity {
				for j := range cfg.Sensitivity[i] {
					cfg.Sensitivity[i][j] = p.float(fmt.Sprintf("s%d%d", i+1, j+1))
				}
			}
			return func(c *adcs.Client) error { return c.SetMTMConfig(mtm, cfg) }
		},
	}
}

//////////////////////////////////////////////////////////////
// Dispatch table
//////////////////////////////////////////////////////////////

var telecommands = map[string]telecommand{
	// Common
	"reset":                          noArgs(func(c *adcs.Client) error { return c.Reset() }),
	"reset_log_pointer":              noArgs(func(c *adcs.Client) error { return c.ResetLogPointer() }),
	"advance_log_pointer":            noArgs(func(c *adcs.Client) error { return c.AdvanceLogPointer() }),
	"reset_boot_registers":           noArgs(func(c *adcs.Client) error { return c.ResetBootRegisters() }),
	"format_sd_card":                 noArgs(func(c *adcs.Client) error { return c.FormatSDCard() }),
	"clear_err_flags":                noArgs(func(c *adcs.Client) error { return c.ClearErrFlags() }),
	"run_selected_program":           noArgs(func(c *adcs.Client) error { return c.RunSelectedProgram() }),
	"trigger_adcs_loop":              noArgs(func(c *adcs.Client) error { return c.TriggerADCSLoop() }),
	"trigger_asgp4":                  noArgs(func(c *adcs.Client) error { return c.TriggerASGP4() }),
	"save_config":                    noArgs(func(c *adcs.Client) error { return c.SaveConfig() }),
	"save_orbit_params":              noArgs(func(c *adcs.Client) error { return c.SaveOrbitParams() }),
	"advance_file_list_read_pointer": noArgs(func(c *adcs.Client) error { return c.AdvanceFileListReadPointer() }),
	"reset_file_list_read_pointer":   noArgs(func(c *adcs.Client) error { return c.ResetFileListReadPointer() }),
	"reset_upload_block":             noArgs(func(c *adcs.Client) error { return c.ResetUploadBlock() }),

	"set_unix_time": {
		usage: "<seconds|now> [millis]",
		build: func(p *argParser) clientFunc {
			if p.pos < len(p.args) && p.args[p.pos] == "now" {
				p.pos++
				return func(c *adcs.Client) error { return c.SetTime(time.Now()) }
			}
			secs := p.uint32("seconds")
			var millis uint16
			if p.pos < len(p.args) {
				millis = p.uint16("millis")
			}
			return func(c *adcs.Client) error { return c.SetUnixTime(secs, millis) }
		},
	},
	"set_cache_enabled": {
		usage: "<enabled>",
		build: func(p *argParser) clientFunc {
			enabled := p.bool("enabled")
			return func(c *adcs.Client) error { return c.SetCacheEnabled(enabled) }
		},
	},
	"set_sram_scrub_size": {
		usage: "<size>",
		build: func(p *argParser) clientFunc {
			size := p.uint16("size")
			return func(c *adcs.Client) error { return c.SetSRAMScrubSize(size) }
		},
	},
	"set_unix_time_save_config": {
		usage: "<save-now> <on-update> <periodic> <period-s>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.UnixTimeSaveConfig{
				SaveNow:      p.bool("save-now"),
				SaveOnUpdate: p.bool("on-update"),
				SavePeriodic: p.bool("periodic"),
				Period:       p.uint8("period-s"),
			}
			return func(c *adcs.Client) error { return c.SetUnixTimeSaveConfig(cfg) }
		},
	},

	// Bootloader
	"set_boot_index": {
		usage: "<index>",
		build: func(p *argParser) clientFunc {
			index := p.uint8("index")
			return func(c *adcs.Client) error { return c.SetBootIndex(index) }
		},
	},
	"read_program_info": {
		usage: "<index>",
		build: func(p *argParser) clientFunc {
			index := p.uint8("index")
			return func(c *adcs.Client) error { return c.ReadProgramInfo(index) }
		},
	},
	"copy_program_internal_flash": {
		usage: "<index> <overwrite-bootloader>",
		build: func(p *argParser) clientFunc {
			index := p.uint8("index")
			overwrite := p.bool("overwrite-bootloader")
			return func(c *adcs.Client) error { return c.CopyProgramInternalFlash(index, overwrite) }
		},
	},

	// Control
	"deploy_magnetometer_boom": {
		usage: "<timeout-s>",
		build: func(p *argParser) clientFunc {
			timeout := p.uint8("timeout-s")
			return func(c *adcs.Client) error { return c.DeployMagnetometerBoom(timeout) }
		},
	},
	"set_enabled_state": {
		usage: "<mode 0=off 1=enabled 2=triggered 3=simulated>",
		build: func(p *argParser) clientFunc {
			mode := adcs.RunMode(p.uint8("mode"))
			return func(c *adcs.Client) error { return c.SetEnabledState(mode) }
		},
	},
	"set_power_control": {
		usage: "<10 node states 0=off 1=on 2=keep>",
		build: func(p *argParser) clientFunc {
			var nodes adcs.PowerNodes
			for i := range nodes {
				nodes[i] = adcs.PowerState(p.uint8(fmt.Sprintf("node-%d", i)))
			}
			return func(c *adcs.Client) error { return c.SetPowerControl(nodes) }
		},
	},
	"clear_latched_errs": {
		usage: "<adcs> <hk>",
		build: func(p *argParser) clientFunc {
			adcsErrs := p.bool("adcs")
			hkErrs := p.bool("hk")
			return func(c *adcs.Client) error { return c.ClearLatchedErrs(adcsErrs, hkErrs) }
		},
	},
	"set_attitude_ctrl_mode": {
		usage: "<mode> <timeout-s>",
		build: func(p *argParser) clientFunc {
			mode := p.uint8("mode")
			timeout := p.uint16("timeout-s")
			return func(c *adcs.Client) error { return c.SetAttitudeCtrlMode(mode, timeout) }
		},
	},
	"set_attitude_estimate_mode": {
		usage: "<mode>",
		build: func(p *argParser) clientFunc {
			mode := p.uint8("mode")
			return func(c *adcs.Client) error { return c.SetAttitudeEstimateMode(mode) }
		},
	},
	"set_attitude_angle": {
		usage: "<roll> <pitch> <yaw> (deg)",
		build: func(p *argParser) clientFunc {
			angles := p.xyz("angle")
			return func(c *adcs.Client) error { return c.SetAttitudeAngle(angles) }
		},
	},
	"set_magnetorquer_output": {
		usage: "<x> <y> <z> (duty, ms)",
		build: func(p *argParser) clientFunc {
			duty := p.xyz16("duty")
			return func(c *adcs.Client) error { return c.SetMagnetorquerOutput(duty) }
		},
	},
	"set_wheel_speed": {
		usage: "<x> <y> <z> (rpm)",
		build: func(p *argParser) clientFunc {
			speed := p.xyz16("speed")
			return func(c *adcs.Client) error { return c.SetWheelSpeed(speed) }
		},
	},
	"set_asgp4_run_mode": {
		usage: "<mode>",
		build: func(p *argParser) clientFunc {
			mode := p.uint8("mode")
			return func(c *adcs.Client) error { return c.SetASGP4RunMode(mode) }
		},
	},
	"set_inertial_ref": {
		usage: "<x> <y> <z> (unit vector)",
		build: func(p *argParser) clientFunc {
			ref := p.xyz("ref")
			return func(c *adcs.Client) error { return c.SetInertialRef(ref) }
		},
	},
	"set_track_controller": {
		usage: "<longitude> <latitude> <altitude>",
		build: func(p *argParser) clientFunc {
			target := p.xyz("target")
			return func(c *adcs.Client) error { return c.SetTrackController(target) }
		},
	},
	"set_mtm_op_mode": {
		usage: "<mode>",
		build: func(p *argParser) clientFunc {
			mode := p.uint8("mode")
			return func(c *adcs.Client) error { return c.SetMTMOpMode(mode) }
		},
	},
	"convert_to_jpg": {
		usage: "<source> <quality> <white-balance>",
		build: func(p *argParser) clientFunc {
			source := p.uint8("source")
			quality := p.uint8("quality")
			wb := p.uint8("white-balance")
			return func(c *adcs.Client) error { return c.ConvertToJPG(source, quality, wb) }
		},
	},
	"save_image": {
		usage: "<camera> <size>",
		build: func(p *argParser) clientFunc {
			camera := p.uint8("camera")
			size := p.uint8("size")
			return func(c *adcs.Client) error { return c.SaveImage(camera, size) }
		},
	},

	// Configuration
	"set_mtq_config": {
		usage: "<x> <y> <z> (axis selection)",
		build: func(p *argParser) clientFunc {
			axes := p.xyzu8("axis")
			return func(c *adcs.Client) error { return c.SetMTQConfig(axes) }
		},
	},
	"set_rw_config": {
		usage: "<x> <y> <z> <skew> (axis selection)",
		build: func(p *argParser) clientFunc {
			var axes [4]uint8
			for i := range axes {
				axes[i] = p.uint8(fmt.Sprintf("wheel-%d", i))
			}
			return func(c *adcs.Client) error { return c.SetRWConfig(axes) }
		},
	},
	"set_rate_gyro_config": {
		usage: "<axis-x> <axis-y> <axis-z> <offset-x> <offset-y> <offset-z> <multiplier>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.RateGyroConfig{
				Axes:       p.xyzu8("axis"),
				Offset:     p.xyz("offset"),
				Multiplier: p.uint8("multiplier"),
			}
			return func(c *adcs.Client) error { return c.SetRateGyroConfig(cfg) }
		},
	},
	"set_mtm1_config": mtmConfigCommand(1),
	"set_mtm2_config": mtmConfigCommand(2),
	"set_detumble_config": {
		usage: "<spin-gain> <damping-gain> <reference-rps> <fast-bdot-gain>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.DetumbleConfig{
				SpinGain:     p.float32("spin-gain"),
				DampingGain:  p.float32("damping-gain"),
				ReferenceRPS: p.float("reference-rps"),
				FastBDotGain: p.float32("fast-bdot-gain"),
			}
			return func(c *adcs.Client) error { return c.SetDetumbleConfig(cfg) }
		},
	},
	"set_ywheel_config": {
		usage: "<control-gain> <damping-gain> <p-gain> <d-gain> <reference-momentum>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.YWheelConfig{
				ControlGain:       p.float32("control-gain"),
				DampingGain:       p.float32("damping-gain"),
				ProportionalGain:  p.float32("p-gain"),
				DerivativeGain:    p.float32("d-gain"),
				ReferenceMomentum: p.float32("reference-momentum"),
			}
			return func(c *adcs.Client) error { return c.SetYWheelConfig(cfg) }
		},
	},
	"set_rwheel_config": {
		usage: "<p-gain> <d-gain> <bias-momentum> <axis-flags>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.RWheelConfig{
				ProportionalGain: p.float32("p-gain"),
				DerivativeGain:   p.float32("d-gain"),
				BiasMomentum:     p.float32("bias-momentum"),
				AxisFlags:        p.uint8("axis-flags"),
			}
			return func(c *adcs.Client) error { return c.SetRWheelConfig(cfg) }
		},
	},
	"set_tracking_config": {
		usage: "<p-gain> <d-gain> <i-gain> <target-facet>",
		build: func(p *argParser) clientFunc {
			cfg := adcs.TrackingConfig{
				ProportionalGain: p.float32("p-gain"),
				DerivativeGain:   p.float32("d-gain"),
				IntegralGain:     p.float32("i-gain"),
				TargetFacet:      p.uint8("target-facet"),
			}
			return func(c *adcs.Client) error { return c.SetTrackingConfig(cfg) }
		},
	},
	"set_moi_matrix": {
		usage: "<ixx> <iyy> <izz> <ixy> <ixz> <iyz> (kg.m^2)",
		build: func(p *argParser) clientFunc {
			m := adcs.MoIMatrix{
				Ixx: p.float32("ixx"),
				Iyy: p.float32("iyy"),
				Izz: p.float32("izz"),
				Ixy: p.float32("ixy"),
				Ixz: p.float32("ixz"),
				Iyz: p.float32("iyz"),
			}
			return func(c *adcs.Client) error { return c.SetMoIMatrix(m) }
		},
	},
	"set_sgp4_orbit_params": {
		usage: "<inclination> <eccentricity> <raan> <arg-perigee> <bstar> <mean-motion> <mean-anomaly> <epoch>",
		build: func(p *argParser) clientFunc {
			params := adcs.SGP4OrbitParams{
				Inclination:  p.float("inclination"),
				Eccentricity: p.float("eccentricity"),
				RAAN:         p.float("raan"),
				ArgPerigee:   p.float("arg-perigee"),
				BStar:        p.float("bstar"),
				MeanMotion:   p.float("mean-motion"),
				MeanAnomaly:  p.float("mean-anomaly"),
				Epoch:        p.float("epoch"),
			}
			return func(c *adcs.Client) error { return c.SetSGP4OrbitParams(params) }
		},
	},

	// File system
	"erase_file": {
		usage: "<type> <counter> <erase-all>",
		build: func(p *argParser) clientFunc {
			fileType := adcs.FileType(p.uint8("type"))
			counter := p.uint8("counter")
			all := p.bool("erase-all")
			return func(c *adcs.Client) error { return c.EraseFile(fileType, counter, all) }
		},
	},
	"load_file_download_block": {
		usage: "<type> <counter> <offset> <length>",
		build: func(p *argParser) clientFunc {
			fileType := adcs.FileType(p.uint8("type"))
			counter := p.uint8("counter")
			offset := p.uint32("offset")
			length := p.uint16("length")
			return func(c *adcs.Client) error {
				return c.LoadFileDownloadBlock(fileType, counter, offset, length)
			}
		},
	},
	"initiate_file_upload": {
		usage: "<destination> <block-size>",
		build: func(p *argParser) clientFunc {
			dest := adcs.UploadDest(p.uint8("destination"))
			blockSize := p.uint8("block-size")
			return func(c *adcs.Client) error { return c.InitiateFileUpload(dest, blockSize) }
		},
	},
	"finalize_upload_block": {
		usage: "<destination> <offset> <length>",
		build: func(p *argParser) clientFunc {
			dest := adcs.UploadDest(p.uint8("destination"))
			offset := p.uint32("offset")
			length := p.uint16("length")
			return func(c *adcs.Client) error { return c.FinalizeUploadBlock(dest, offset, length) }
		},
	},
	"initiate_download_burst": {
		usage: "<message-length> <ignore-hole-map>",
		build: func(p *argParser) clientFunc {
			length := p.uint8("message-length")
			ignore := p.bool("ignore-hole-map")
			return func(c *adcs.Client) error { return c.InitiateDownloadBurst(length, ignore) }
		},
	},
}
