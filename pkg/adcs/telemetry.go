// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package adcs

// Scale coefficients for state and sensor telemetry
const (
	coefAngle       = 0.01
	coefRate        = 0.01
	coefECI         = 0.25
	coefLLH         = 0.01
	coefMagField    = 0.01
	coefSunVector   = 0.0001
	coefStarVector  = 0.0001
	coefMagnetorq   = 10.0
	coefGyroBias    = 0.001
	coefCovariance  = 0.001
	coefQuatError   = 0.0001
	coefInnovation  = 0.0001
	coefGPSPosStd   = 0.1
	coefStarRate    = 0.0001
	coefStarAtt     = 0.01
	coefCurrent     = 0.1
	coefCSSCurrent  = 0.48828125
	coefWheelCurr   = 0.01
	coefCubeStarTmp = 0.01
	coefMTMTemp     = 0.1
)

// Flag counts
const (
	stateFlagCount       = 52
	cubeACPFlagCount     = 6
	starTrackerFlagCount = 8
	starRecordCount      = 3
	cameraCount          = 2
	cssCount             = 10
)

// ============================================================
// Attitude state
// ============================================================

// CurrentState is the estimated attitude and orbit state with the ADCS
// status flags. The 52 flags are taken from bits 4-7 of byte 1, the
// 32-bit word at offset 2 and the low 16 bits of the word at offset 6.
type CurrentState struct {
	EstimateMode  uint8
	ControlMode   uint8
	RunMode       RunMode
	ASGP4Mode     uint8
	Flags         []bool
	MTMSampleMode uint8
	Angles        XYZ   // deg
	Quaternion    XYZ16 // raw
	AngularRate   XYZ   // deg/s
	ECIPosition   XYZ   // km
	ECIVelocity   XYZ   // m/s
	LLH           XYZ   // deg, deg, km
	ECEF          XYZ16 // raw
}

// DecodeCurrentState decodes the attitude state telemetry.
func DecodeCurrentState(b []byte) *CurrentState {
	s := &CurrentState{
		EstimateMode: b[0] & 0x0F,
		ControlMode:  b[0] >> 4,
		RunMode:      RunMode(b[1] & 0x03),
		ASGP4Mode:    (b[1] >> 2) & 0x03,
		Flags:        make([]bool, 0, stateFlagCount),
		Angles:       GetXYZ(b[12:], coefAngle),
		Quaternion:   GetXYZ16(b[18:]),
		AngularRate:  GetXYZ(b[24:], coefRate),
		ECIPosition:  GetXYZ(b[30:], coefECI),
		ECIVelocity:  GetXYZ(b[36:], coefECI),
		LLH:          GetXYZ(b[42:], coefLLH),
		ECEF:         GetXYZ16(b[48:]),
	}

	word2 := Uint32FromBytes(b[2:6])
	word6 := Uint32FromBytes(b[6:10])
	s.Flags = append(s.Flags, UnpackFlags(uint32(b[1]>>4), 4)...)
	s.Flags = append(s.Flags, UnpackFlags(word2, 32)...)
	s.Flags = append(s.Flags, UnpackFlags(word6, 16)...)
	s.MTMSampleMode = uint8((word6 >> 16) & 0x03)
	return s
}

// Measurements are the calibrated sensor vectors.
type Measurements struct {
	MagneticField XYZ // uT
	CoarseSun     XYZ
	Sun           XYZ
	Nadir         XYZ
	AngularRate   XYZ // deg/s
	WheelSpeed    XYZ // rpm
	Star1Body     XYZ
	Star1Orbit    XYZ
	Star2Body     XYZ
	Star2Orbit    XYZ
	Star3Body     XYZ
	Star3Orbit    XYZ
}

func DecodeMeasurements(b []byte) *Measurements {
	return &Measurements{
		MagneticField: GetXYZ(b[0:], coefMagField),
		CoarseSun:     GetXYZ(b[6:], coefSunVector),
		Sun:           GetXYZ(b[12:], coefSunVector),
		Nadir:         GetXYZ(b[18:], coefSunVector),
		AngularRate:   GetXYZ(b[24:], coefRate),
		WheelSpeed:    GetXYZ(b[30:], 1),
		Star1Body:     GetXYZ(b[36:], coefStarVector),
		Star1Orbit:    GetXYZ(b[42:], coefStarVector),
		Star2Body:     GetXYZ(b[48:], coefStarVector),
		Star2Orbit:    GetXYZ(b[54:], coefStarVector),
		Star3Body:     GetXYZ(b[60:], coefStarVector),
		Star3Orbit:    GetXYZ(b[66:], coefStarVector),
	}
}

// Actuator holds the last commanded actuator outputs.
type Actuator struct {
	Magnetorquer XYZ // ms
	WheelSpeed   XYZ // rpm
}

func DecodeActuator(b []byte) *Actuator {
	return &Actuator{
		Magnetorquer: GetXYZ(b[0:], coefMagnetorq),
		WheelSpeed:   GetXYZ(b[6:], 1),
	}
}

// Estimation holds estimator internals.
type Estimation struct {
	IGRFMagneticField    XYZ
	ModelledSun          XYZ
	GyroBias             XYZ
	Innovation           XYZ
	QuaternionError      XYZ
	QuaternionCovariance XYZ
	RateCovariance       XYZ
}

func DecodeEstimation(b []byte) *Estimation {
	return &Estimation{
		IGRFMagneticField:    GetXYZ(b[0:], coefMagField),
		ModelledSun:          GetXYZ(b[6:], coefSunVector),
		GyroBias:             GetXYZ(b[12:], coefGyroBias),
		Innovation:           GetXYZ(b[18:], coefInnovation),
		QuaternionError:      GetXYZ(b[24:], coefQuatError),
		QuaternionCovariance: GetXYZ(b[30:], coefCovariance),
		RateCovariance:       GetXYZ(b[36:], coefCovariance),
	}
}

// ============================================================
// Raw sensors
// ============================================================

// CameraSample is one camera's centroid and detection status.
type CameraSample struct {
	CentroidX     int16
	CentroidY     int16
	CaptureStatus uint8
	DetectResult  uint8
}

// RawSensor holds unprocessed sensor readings.
type RawSensor struct {
	Cameras     [cameraCount]CameraSample
	CSS         [cssCount]uint8
	MTM         XYZ16
	AngularRate XYZ16
}

func decodeCamera(b []byte, i int) CameraSample {
	base := 6 * i
	return CameraSample{
		CentroidX:     int16At(b[base:]),
		CentroidY:     int16At(b[base+2:]),
		CaptureStatus: b[base+4],
		DetectResult:  b[base+5],
	}
}

func DecodeRawSensor(b []byte) *RawSensor {
	r := &RawSensor{
		MTM:         GetXYZ16(b[22:]),
		AngularRate: GetXYZ16(b[28:]),
	}
	for i := range r.Cameras {
		r.Cameras[i] = decodeCamera(b, i)
	}
	copy(r.CSS[:], b[12:12+cssCount])
	return r
}

// GPSAxis is the ECEF position and velocity along one axis.
type GPSAxis struct {
	Position int32 // m
	Velocity int16 // m/s
}

// RawGPS is the unprocessed GPS receiver solution.
type RawGPS struct {
	SolutionStatus    uint8
	TrackedSatellites uint8
	UsedSatellites    uint8
	XYZLogCounter     uint8
	RangeLogCounter   uint8
	ResponseMessage   uint8
	ReferenceWeek     uint16
	TimeMillis        uint32
	ECEF              [3]GPSAxis
	PositionStdDev    XYZ // m
	VelocityStdDev    XYZu8
}

func decodeGPSAxis(b []byte, i int) GPSAxis {
	base := 12 + 6*i
	return GPSAxis{
		Position: Int32FromBytes(b[base : base+4]),
		Velocity: int16At(b[base+4:]),
	}
}

func DecodeRawGPS(b []byte) *RawGPS {
	g := &RawGPS{
		SolutionStatus:    b[0],
		TrackedSatellites: b[1],
		UsedSatellites:    b[2],
		XYZLogCounter:     b[3],
		RangeLogCounter:   b[4],
		ResponseMessage:   b[5],
		ReferenceWeek:     uint16At(b[6:]),
		TimeMillis:        Uint32FromBytes(b[8:12]),
		PositionStdDev: XYZ{
			X: coefGPSPosStd * float64(b[30]),
			Y: coefGPSPosStd * float64(b[31]),
			Z: coefGPSPosStd * float64(b[32]),
		},
		VelocityStdDev: getXYZu8(b[33:]),
	}
	for i := range g.ECEF {
		g.ECEF[i] = decodeGPSAxis(b, i)
	}
	return g
}

// StarRecord is one identified star.
type StarRecord struct {
	Confidence uint8
	Magnitude  uint16
	Catalogue  uint16
	CentroidX  int16
	CentroidY  int16
}

// StarTracker is the star tracker measurement block.
type StarTracker struct {
	DetectedStars      uint8
	ImageNoise         uint8
	InvalidStars       uint8
	IdentifiedStars    uint8
	IdentificationMode uint8
	ImageDarkValue     uint8
	Flags              []bool
	SampleTime         uint16
	Stars              [starRecordCount]StarRecord
	CaptureTime        uint16 // ms
	DetectionTime      uint16 // ms
	IdentificationTime uint16 // ms
	EstimatedRate      XYZ
	EstimatedAttitude  XYZ
}

const starRecordBase = 9

// decodeStarRecord reads star i. Confidence advances by one byte per star
// while the other fields advance by their own strides; the offsets follow
// the device frame table as published.
func decodeStarRecord(b []byte, i int) StarRecord {
	return StarRecord{
		Confidence: b[starRecordBase+i],
		Magnitude:  uint16At(b[starRecordBase+3+2*i:]),
		Catalogue:  uint16At(b[starRecordBase+9+6*i:]),
		CentroidX:  int16At(b[starRecordBase+11+6*i:]),
		CentroidY:  int16At(b[starRecordBase+13+6*i:]),
	}
}

func DecodeStarTracker(b []byte) *StarTracker {
	st := &StarTracker{
		DetectedStars:      b[0],
		ImageNoise:         b[1],
		InvalidStars:       b[2],
		IdentifiedStars:    b[3],
		IdentificationMode: b[4],
		ImageDarkValue:     b[5],
		Flags:              UnpackFlags(uint32(b[6]), starTrackerFlagCount),
		SampleTime:         uint16At(b[7:]),
		CaptureTime:        uint16At(b[36:]),
		DetectionTime:      uint16At(b[38:]),
		IdentificationTime: uint16At(b[40:]),
		EstimatedRate:      GetXYZ(b[42:], coefStarRate),
		EstimatedAttitude:  GetXYZ(b[48:], coefStarAtt),
	}
	for i := range st.Stars {
		st.Stars[i] = decodeStarRecord(b, i)
	}
	return st
}

// ============================================================
// Power and temperature
// ============================================================

// PowerTemp holds subsystem currents and temperatures.
type PowerTemp struct {
	CubeSense1Current3V3  float64 // mA
	CubeSense1CurrentSRAM float64
	CubeSense2Current3V3  float64
	CubeSense2CurrentSRAM float64
	CubeControl3V3        float64
	CubeControl5V         float64
	CubeControlVBat       float64
	Wheel1Current         float64
	Wheel2Current         float64
	Wheel3Current         float64
	CubeStarCurrent       float64
	MagnetorquerCurrent   float64
	CubeStarTemp          float64 // degC
	MCUTemp               float64
	MTMTemp               float64
	MTM2Temp              float64
	RateSensorTemp        XYZ16
}

func currentAt(b []byte, offset int, coef float64) float64 {
	return coef * float64(uint16At(b[offset:]))
}

func DecodePowerTemp(b []byte) *PowerTemp {
	return &PowerTemp{
		CubeSense1Current3V3:  currentAt(b, 0, coefCurrent),
		CubeSense1CurrentSRAM: currentAt(b, 2, coefCurrent),
		CubeSense2Current3V3:  currentAt(b, 4, coefCurrent),
		CubeSense2CurrentSRAM: currentAt(b, 6, coefCurrent),
		CubeControl3V3:        currentAt(b, 8, coefCSSCurrent),
		CubeControl5V:         currentAt(b, 10, coefCSSCurrent),
		CubeControlVBat:       currentAt(b, 12, coefCSSCurrent),
		Wheel1Current:         currentAt(b, 14, coefWheelCurr),
		Wheel2Current:         currentAt(b, 16, coefWheelCurr),
		Wheel3Current:         currentAt(b, 18, coefWheelCurr),
		CubeStarCurrent:       currentAt(b, 20, coefWheelCurr),
		MagnetorquerCurrent:   currentAt(b, 22, coefCurrent),
		CubeStarTemp:          coefCubeStarTmp * float64(int16At(b[24:])),
		MCUTemp:               float64(int16At(b[26:])),
		MTMTemp:               coefMTMTemp * float64(int16At(b[28:])),
		MTM2Temp:              coefMTMTemp * float64(int16At(b[30:])),
		RateSensorTemp:        GetXYZ16(b[32:]),
	}
}

// PowerControl is the current 2-bit power selection per node.
func DecodePowerControl(b []byte) *PowerNodes {
	var nodes PowerNodes
	for i := range nodes {
		nodes[i] = PowerState((b[i/4] >> uint(2*(i%4))) & 0x03)
	}
	return &nodes
}

// ============================================================
// ACP status
// ============================================================

// ASGP4 is the output of the augmented SGP4 propagator.
type ASGP4 struct {
	Complete bool
	Error    uint8
	Elements [sgp4ElementCount]float32
}

func DecodeASGP4(b []byte) *ASGP4 {
	a := &ASGP4{
		Complete: b[0]&0x01 != 0,
		Error:    b[0] >> 1,
	}
	for i := range a.Elements {
		a.Elements[i] = float32At(b[1+4*i:])
	}
	return a
}

// JPGConversionProgress reports a running JPG conversion.
type JPGConversionProgress struct {
	Percent     uint8
	Result      uint8
	FileCounter uint8
}

func DecodeJPGConversionProgress(b []byte) *JPGConversionProgress {
	return &JPGConversionProgress{Percent: b[0], Result: b[1], FileCounter: b[2]}
}

// CubeACPState carries the ACP status flags.
type CubeACPState struct {
	Flags []bool
}

func DecodeCubeACPState(b []byte) *CubeACPState {
	return &CubeACPState{Flags: UnpackFlags(uint32(b[0]), cubeACPFlagCount)}
}

// ExecutionTimes are the durations of the last loop stages in ms.
type ExecutionTimes struct {
	ADCSUpdate       uint16
	SensorActuatorIO uint16
	Estimation       uint16
	Control          uint16
}

func DecodeExecutionTimes(b []byte) *ExecutionTimes {
	return &ExecutionTimes{
		ADCSUpdate:       uint16At(b[0:]),
		SensorActuatorIO: uint16At(b[2:]),
		Estimation:       uint16At(b[4:]),
		Control:          uint16At(b[6:]),
	}
}

// ACPLoopStat is the loop time and last execution point.
type ACPLoopStat struct {
	Time           uint16 // ms
	ExecutionPoint uint8
}

func DecodeACPLoopStat(b []byte) *ACPLoopStat {
	return &ACPLoopStat{Time: uint16At(b[0:]), ExecutionPoint: b[2]}
}

// ImageSaveProgress reports a running image save.
type ImageSaveProgress struct {
	Percent uint8
	Status  uint8
}

func DecodeImageSaveProgress(b []byte) *ImageSaveProgress {
	return &ImageSaveProgress{Percent: b[0], Status: b[1]}
}

// DecodeAttitudeAngle decodes the commanded attitude angles.
func DecodeAttitudeAngle(b []byte) *XYZ {
	v := GetXYZ(b, coefAttitudeAngle)
	return &v
}

// DecodeTrackController decodes the target reference.
func DecodeTrackController(b []byte) *XYZ {
	v := GetXYZ(b, coefTrackController)
	return &v
}

// DecodeInertialRef decodes the inertial pointing reference.
func DecodeInertialRef(b []byte) *XYZ {
	v := GetXYZ(b, coefInertialRef)
	return &v
}

// DecodeMTM2Measurements decodes raw secondary magnetometer samples.
func DecodeMTM2Measurements(b []byte) *XYZ16 {
	v := GetXYZ16(b)
	return &v
}

// ============================================================
// Telemetry requests
// ============================================================

func (c *Client) GetCurrentState() (*CurrentState, error) {
	b, err := c.Telemetry(IDGetCurrentState, LenCurrentState)
	if err != nil {
		return nil, err
	}
	return DecodeCurrentState(b), nil
}

func (c *Client) GetMeasurements() (*Measurements, error) {
	b, err := c.Telemetry(IDGetMeasurements, LenMeasurements)
	if err != nil {
		return nil, err
	}
	return DecodeMeasurements(b), nil
}

func (c *Client) GetActuator() (*Actuator, error) {
	b, err := c.Telemetry(IDGetActuator, LenActuator)
	if err != nil {
		return nil, err
	}
	return DecodeActuator(b), nil
}

func (c *Client) GetEstimation() (*Estimation, error) {
	b, err := c.Telemetry(IDGetEstimation, LenEstimation)
	if err != nil {
		return nil, err
	}
	return DecodeEstimation(b), nil
}

func (c *Client) GetRawSensor() (*RawSensor, error) {
	b, err := c.Telemetry(IDGetRawSensor, LenRawSensor)
	if err != nil {
		return nil, err
	}
	return DecodeRawSensor(b), nil
}

func (c *Client) GetRawGPS() (*RawGPS, error) {
	b, err := c.Telemetry(IDGetRawGPS, LenRawGPS)
	if err != nil {
		return nil, err
	}
	return DecodeRawGPS(b), nil
}

func (c *Client) GetStarTracker() (*StarTracker, error) {
	b, err := c.Telemetry(IDGetStarTracker, LenStarTracker)
	if err != nil {
		return nil, err
	}
	return DecodeStarTracker(b), nil
}

func (c *Client) GetPowerTemp() (*PowerTemp, error) {
	b, err := c.Telemetry(IDGetPowerTemp, LenPowerTemp)
	if err != nil {
		return nil, err
	}
	return DecodePowerTemp(b), nil
}

func (c *Client) GetPowerControl() (*PowerNodes, error) {
	b, err := c.Telemetry(IDGetPowerControl, LenPowerControl)
	if err != nil {
		return nil, err
	}
	return DecodePowerControl(b), nil
}

func (c *Client) GetASGP4() (*ASGP4, error) {
	b, err := c.Telemetry(IDGetASGP4, LenASGP4)
	if err != nil {
		return nil, err
	}
	return DecodeASGP4(b), nil
}

func (c *Client) GetJPGConversionProgress() (*JPGConversionProgress, error) {
	b, err := c.Telemetry(IDGetJPGConversionProgress, LenJPGConversionProgress)
	if err != nil {
		return nil, err
	}
	return DecodeJPGConversionProgress(b), nil
}

func (c *Client) GetCubeACPState() (*CubeACPState, error) {
	b, err := c.Telemetry(IDGetCubeACPState, LenCubeACPState)
	if err != nil {
		return nil, err
	}
	return DecodeCubeACPState(b), nil
}

func (c *Client) GetExecutionTimes() (*ExecutionTimes, error) {
	b, err := c.Telemetry(IDGetExecutionTimes, LenExecutionTimes)
	if err != nil {
		return nil, err
	}
	return DecodeExecutionTimes(b), nil
}

func (c *Client) GetACPLoopStat() (*ACPLoopStat, error) {
	b, err := c.Telemetry(IDGetACPLoopStat, LenACPLoopStat)
	if err != nil {
		return nil, err
	}
	return DecodeACPLoopStat(b), nil
}

func (c *Client) GetImageSaveProgress() (*ImageSaveProgress, error) {
	b, err := c.Telemetry(IDGetImageSaveProgress, LenImageSaveProgress)
	if err != nil {
		return nil, err
	}
	return DecodeImageSaveProgress(b), nil
}

func (c *Client) GetAttitudeAngle() (*XYZ, error) {
	b, err := c.Telemetry(IDGetAttitudeAngle, LenAttitudeAngle)
	if err != nil {
		return nil, err
	}
	return DecodeAttitudeAngle(b), nil
}

func (c *Client) GetTrackController() (*XYZ, error) {
	b, err := c.Telemetry(IDGetTrackController, LenTrackController)
	if err != nil {
		return nil, err
	}
	return DecodeTrackController(b), nil
}

func (c *Client) GetInertialRef() (*XYZ, error) {
	b, err := c.Telemetry(IDGetInertialRef, LenInertialRef)
	if err != nil {
		return nil, err
	}
	return DecodeInertialRef(b), nil
}

func (c *Client) GetMTM2Measurements() (*XYZ16, error) {
	b, err := c.Telemetry(IDGetMTM2Measurements, LenMTM2Measurements)
	if err != nil {
		return nil, err
	}
	return DecodeMTM2Measurements(b), nil
}
