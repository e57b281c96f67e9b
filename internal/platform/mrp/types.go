package mrp

import "fmt"

// Image types accepted by the provisioner.
const (
	ImageTypeKernel = "Kernel"
	ImageTypeInitrd = "Initrd"
)

// DefaultPreseedType is the preseed type used when none is given.
const DefaultPreseedType = "preseed"

// ConfigTypeDynamicReserved is the IPv4 config type of an interface whose
// address is reserved in the DHCP server.
const ConfigTypeDynamicReserved = "dynamic-reserved"

// Machine is a machine record as returned by the provisioner.
type Machine struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Hostname       string `json:"hostname,omitempty"`
	Arch           string `json:"arch,omitempty"`
	Subarch        string `json:"subarch,omitempty"`
	KernelID       *int64 `json:"kernel_id,omitempty"`
	InitrdID       *int64 `json:"initrd_id,omitempty"`
	PreseedID      *int64 `json:"preseed_id,omitempty"`
	NetbootEnabled bool   `json:"netboot_enabled"`
	KernelOpts     string `json:"kernel_opts"`
}

// Image is a kernel or initrd image stored in the provisioner.
type Image struct {
	ID          int64  `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Arch        string `json:"arch"`
	UploadDate  string `json:"upload_date,omitempty"`
	User        string `json:"user,omitempty"`
	KnownGood   bool   `json:"known_good"`
	Public      bool   `json:"public"`
}

// ImageKey is the natural key of an image.
type ImageKey struct {
	Description string
	Type        string
	Arch        string
}

// Matches reports whether img has exactly this key.
func (k ImageKey) Matches(img Image) bool {
	return img.Description == k.Description && img.Type == k.Type && img.Arch == k.Arch
}

// String renders the key for error messages.
func (k ImageKey) String() string {
	return fmt.Sprintf("%s %q (%s)", k.Type, k.Description, k.Arch)
}

// Preseed is an installer preseed file stored in the provisioner.
type Preseed struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	User        string `json:"user,omitempty"`
	KnownGood   bool   `json:"known_good"`
	Public      bool   `json:"public"`
}

// Interface is a network interface of a machine.
type Interface struct {
	ID             int64  `json:"id"`
	Identifier     string `json:"identifier"`
	MAC            string `json:"mac,omitempty"`
	ConfigTypeV4   string `json:"config_type_v4"`
	ConfiguredIPv4 string `json:"configured_ipv4"`
	LeaseIPv4      string `json:"lease_ipv4"`
}

// IPv4 returns the address the machine is reachable on through this
// interface: the reserved address for dynamic-reserved interfaces that
// have one, the last DHCP lease otherwise.
func (i Interface) IPv4() string {
	if i.ConfigTypeV4 == ConfigTypeDynamicReserved && i.ConfiguredIPv4 != "" {
		return i.ConfiguredIPv4
	}
	return i.LeaseIPv4
}

// MachineParameters is a partial machine update. Nil fields are not sent.
type MachineParameters struct {
	KernelID   *int64
	InitrdID   *int64
	PreseedID  *int64
	Subarch    string
	KernelOpts string
}

// body builds the PUT payload. Netboot is always enabled.
func (p MachineParameters) body() map[string]any {
	params := map[string]any{
		"netboot_enabled": true,
		"kernel_opts":     p.KernelOpts,
	}
	if p.KernelID != nil {
		params["kernel_id"] = *p.KernelID
	}
	if p.InitrdID != nil {
		params["initrd_id"] = *p.InitrdID
	}
	if p.PreseedID != nil {
		params["preseed_id"] = *p.PreseedID
	}
	if p.Subarch != "" {
		params["subarch"] = p.Subarch
	}
	return params
}

// ImageUpload describes a new image.
type ImageUpload struct {
	Description string
	Type        string
	Arch        string
	KnownGood   bool
	Public      bool

	// Filename is sent as the multipart file name.
	Filename string
}

// imageMetadata is the JSON document sent in the "q" form field.
type imageMetadata struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Arch        string `json:"arch"`
	KnownGood   bool   `json:"known_good"`
	Public      bool   `json:"public"`
}

// PreseedUpload describes a new preseed.
type PreseedUpload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	KnownGood   bool   `json:"known_good"`
	Public      bool   `json:"public"`
	Content     string `json:"content"`
}

// ValidImageType reports whether t is an image type the provisioner accepts.
func ValidImageType(t string) bool {
	return t == ImageTypeKernel || t == ImageTypeInitrd
}
