package schema

// clientTable mirrors the per-client view: identity, channel membership, and
// the voice/mute flag block that changes at conversation speed.
var clientTable = Table{
	Kind:    KindClient,
	Version: 1,
	Descriptors: []Descriptor{
		stringProp(clientGetters, "uid"),
		stringProp(clientGetters, "name"),
		intProp(clientGetters, "channel_id"),
		enumProp(clientGetters, "talking", "talk_status"),
		boolProp(clientGetters, "whispering"),
		enumProp(clientGetters, "away", "away_status"),
		stringProp(clientGetters, "away_message"),
		enumProp(clientGetters, "input_muted", "mute_input_status"),
		enumProp(clientGetters, "output_muted", "mute_output_status"),
		enumProp(clientGetters, "input_hardware", "hardware_input_status"),
		enumProp(clientGetters, "output_hardware", "hardware_output_status"),
		stringProp(clientGetters, "phonetic_name"),
		boolProp(clientGetters, "recording"),
		boolProp(clientGetters, "is_channel_commander"),
		boolProp(clientGetters, "is_priority_speaker"),
		boolProp(clientGetters, "is_talker"),
		intProp(clientGetters, "talk_power"),
		intProp(clientGetters, "database_id"),
		intProp(clientGetters, "channel_group_id"),
		intProp(clientGetters, "volume_modificator"),
		intProp(clientGetters, "needed_serverquery_view_power"),
		intProp(clientGetters, "icon_id"),
		stringProp(clientGetters, "country"),
		stringProp(clientGetters, "badges"),
		stringProp(clientGetters, "description"),
		secondsProp(clientGetters, "idle_time"),
	},
}
