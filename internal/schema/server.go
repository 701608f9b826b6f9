package schema

// serverTable covers the virtual-server properties worth mirroring: the
// identity block available on connect plus the explicitly fetched extras
// (welcome message, quotas, uptime).
var serverTable = Table{
	Kind:    KindServer,
	Version: 1,
	Descriptors: []Descriptor{
		stringProp(serverGetters, "uid"),
		stringProp(serverGetters, "name"),
		stringProp(serverGetters, "phonetic_name"),
		stringProp(serverGetters, "platform"),
		stringProp(serverGetters, "version"),
		unixProp(serverGetters, "created"),
		enumProp(serverGetters, "codec_encryption_mode", "codec_encryption_mode"),
		stringProp(serverGetters, "hostbanner_url"),
		stringProp(serverGetters, "hostbanner_gfx_url"),
		secondsProp(serverGetters, "hostbanner_gfx_interval"),
		enumProp(serverGetters, "hostbanner_mode", "hostbanner_mode"),
		intProp(serverGetters, "priority_speaker_dimm_modificator"),
		stringProp(serverGetters, "hostbutton_tooltip"),
		stringProp(serverGetters, "hostbutton_url"),
		stringProp(serverGetters, "hostbutton_gfx_url"),
		intProp(serverGetters, "icon_id"),
		intProp(serverGetters, "reserved_slots"),
		boolProp(serverGetters, "ask_for_privilegekey"),
		secondsProp(serverGetters, "channel_temp_delete_delay_default"),
		stringProp(serverGetters, "welcome_message"),
		intProp(serverGetters, "max_clients"),
		intProp(serverGetters, "clients_online"),
		intProp(serverGetters, "channels_online"),
		secondsProp(serverGetters, "uptime"),
		boolProp(serverGetters, "password"),
		intProp(serverGetters, "port"),
	},
}
