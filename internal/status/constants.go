// internal/status/constants.go
package status

// Sampler Status Block layout constants.
// These values define the mirror protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerBlock is the fixed number of registers in the status block.
const SlotsPerBlock = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the sampler health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last error code.
const SlotLastErrorCode = 1

// SlotSecondsWithoutData holds how long (seconds) no reading has been present.
const SlotSecondsWithoutData = 2

// SlotModeCode holds the sampling mode (0 simulate, 1 fixed, 2 hardware).
const SlotModeCode = 3

// ---- RESERVED RANGE ----

// Slots 4–10 are reserved for future use.
const SlotReservedStart = 4
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// ---- LIMITS ----

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// MaxSeconds is where SecondsWithoutData saturates.
const MaxSeconds uint16 = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents the boot state (nothing sampled yet).
const HealthUnknown uint16 = 0

// HealthOK means the last tick had at least one reading.
const HealthOK uint16 = 1

// HealthNoData means the last tick had no readings.
const HealthNoData uint16 = 2

// HealthSampleFailed means the last tick's source failed.
const HealthSampleFailed uint16 = 3

// HealthStopped means the sampling loop is not running.
const HealthStopped uint16 = 4

// ---- ERROR CODES ----

// ErrorNone means no error since the last healthy tick.
const ErrorNone uint16 = 0

// ErrorSampleFailed is set when the source panicked.
const ErrorSampleFailed uint16 = 1
