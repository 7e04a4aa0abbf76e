package network

// Coordinator routes shared by the agent, the console and the reference backend.
const (
	PathHeartbeat   = "/device/heartbeat"
	PathGetCommand  = "/device/get_command"
	PathUploadEcho  = "/device/upload_echo"
	PathGetDevices  = "/control/get_devices"
	PathSetAlias    = "/control/set_alias"
	PathSendCommand = "/control/send_command"
	PathGetEcho     = "/control/get_echo"
)

// TimestampLayout is the format the coordinator uses for last_online and echo timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// DeviceRequest is the body of every agent call that only identifies the device.
type DeviceRequest struct {
	DeviceID string `json:"device_id"`
}

type HeartbeatResponse struct {
	Alias string `json:"alias"`
}

// CommandRequest is a unit of work handed to the agent that polled for it.
type CommandRequest struct {
	Command   string `json:"command"`
	Timestamp string `json:"timestamp"`
}

// ExecutionResult is the captured stdout/stderr of one command run.
// Both fields may be set at once.
type ExecutionResult struct {
	Output string `json:"output"`
	Error  string `json:"error"`
}

type UploadEchoRequest struct {
	DeviceID string `json:"device_id"`
	Output   string `json:"output"`
	Error    string `json:"error"`
}

type DeviceRecord struct {
	DeviceID   string `json:"device_id"`
	Alias      string `json:"alias"`
	LastOnline string `json:"last_online"`
}

type DeviceList struct {
	Devices []DeviceRecord `json:"devices"`
}

type SetAliasRequest struct {
	DeviceID string `json:"device_id"`
	NewAlias string `json:"new_alias"`
}

type SendCommandRequest struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
}

// EchoRecord is the latest result stored for a device. Each upload overwrites it.
type EchoRecord struct {
	Output    string `json:"output"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// StatusMessage is the envelope the coordinator puts on every non-empty response.
type StatusMessage struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
