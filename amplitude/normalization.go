package amplitude

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amplitude/experiment-go-server/pkg/experiment"
	"github.com/open-feature/go-sdk-contrib/providers/ffbridge"
)

// Key is the type for the keys in the Amplitude User type.
type Key string

const (
	// KeyUserID is the canonical key for the user ID in the Amplitude User type.
	// The target identifier is always mapped to it.
	KeyUserID Key = "user_id"
	// KeyDeviceID is the canonical key for the device ID in the Amplitude User type.
	KeyDeviceID Key = "device_id"
	// KeyCountry is the canonical key for the country in the Amplitude User type.
	KeyCountry Key = "country"
	// KeyRegion is the canonical key for the region in the Amplitude User type.
	KeyRegion Key = "region"
	// KeyDma is the canonical key for the DMA in the Amplitude User type.
	KeyDma Key = "dma"
	// KeyCity is the canonical key for the city in the Amplitude User type.
	KeyCity Key = "city"
	// KeyLanguage is the canonical key for the language in the Amplitude User type.
	KeyLanguage Key = "language"
	// KeyPlatform is the canonical key for the platform in the Amplitude User type.
	KeyPlatform Key = "platform"
	// KeyVersion is the canonical key for the version in the Amplitude User type.
	KeyVersion Key = "version"
	// KeyOs is the canonical key for the OS in the Amplitude User type.
	KeyOs Key = "os"
	// KeyDeviceManufacturer is the canonical key for the device manufacturer in the Amplitude User type.
	KeyDeviceManufacturer Key = "device_manufacturer"
	// KeyDeviceBrand is the canonical key for the device brand in the Amplitude User type.
	KeyDeviceBrand Key = "device_brand"
	// KeyDeviceModel is the canonical key for the device model in the Amplitude User type.
	KeyDeviceModel Key = "device_model"
	// KeyCarrier is the canonical key for the carrier in the Amplitude User type.
	KeyCarrier Key = "carrier"
	// KeyLibrary is the canonical key for the library in the Amplitude User type.
	KeyLibrary Key = "library"
	// KeyUserProperties is the canonical key for the user properties in the Amplitude User type.
	KeyUserProperties Key = "user_properties"
)

// targetNameProperty is the user property holding the target name.
const targetNameProperty = "name"

// errNoUserIdentity is returned when a target maps to a user with neither a
// user ID nor a device ID.
var errNoUserIdentity = errors.New("target must have an identifier or a device_id attribute")

// DefaultKeyMap is a map of target attribute keys to the canonical key used
// by Amplitude. Target attributes are strings, so only the scalar Amplitude
// user fields are listed. Any keys that are not mapped will be added to the
// User.UserProperties map.
func DefaultKeyMap() map[string]Key {
	keyMap := map[string]Key{}
	for k, values := range map[Key][]string{
		KeyUserID:             {string(KeyUserID), "userId", "user-id", "UserId", "UserID"},
		KeyDeviceID:           {string(KeyDeviceID), "deviceId", "device-id", "DeviceId", "DeviceID"},
		KeyCountry:            {string(KeyCountry), "Country"},
		KeyRegion:             {string(KeyRegion), "Region"},
		KeyDma:                {string(KeyDma), "Dma", "DMA"},
		KeyCity:               {string(KeyCity), "City"},
		KeyLanguage:           {string(KeyLanguage), "Language"},
		KeyPlatform:           {string(KeyPlatform), "Platform"},
		KeyVersion:            {string(KeyVersion), "Version"},
		KeyOs:                 {string(KeyOs), "Os", "OS"},
		KeyDeviceManufacturer: {string(KeyDeviceManufacturer), "deviceManufacturer", "device-manufacturer", "DeviceManufacturer"},
		KeyDeviceBrand:        {string(KeyDeviceBrand), "deviceBrand", "device-brand", "DeviceBrand"},
		KeyDeviceModel:        {string(KeyDeviceModel), "deviceModel", "device-model", "DeviceModel"},
		KeyCarrier:            {string(KeyCarrier), "Carrier"},
		KeyLibrary:            {string(KeyLibrary), "Library"},
	} {
		for _, value := range values {
			keyMap[value] = k
		}
	}
	return keyMap
}

// toAmplitudeUser converts a target to an Amplitude User.
// The identifier becomes the user ID, the name a user property, and each
// attribute either the mapped Amplitude field or a user property.
func toAmplitudeUser(target ffbridge.Target, keyMap map[string]Key) (*experiment.User, error) {
	userMap := make(map[Key]any)
	userProperties := make(map[string]any)
	for key, val := range target.Attributes {
		if resolvedKey, ok := keyMap[key]; ok && resolvedKey != KeyUserProperties {
			userMap[resolvedKey] = val
		} else {
			userProperties[key] = val
		}
	}
	if target.Identifier != "" {
		userMap[KeyUserID] = target.Identifier
	}
	if target.Name != "" {
		userProperties[targetNameProperty] = target.Name
	}
	if target.Anonymous != nil {
		userProperties["anonymous"] = *target.Anonymous
	}
	if len(userProperties) > 0 {
		userMap[KeyUserProperties] = userProperties
	}

	userMapJSON, err := json.Marshal(userMap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal user map: %w", err)
	}

	var user experiment.User
	if err := json.Unmarshal(userMapJSON, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user map: %w", err)
	}

	if user.UserId == "" && user.DeviceId == "" {
		return nil, errNoUserIdentity
	}
	return &user, nil
}
