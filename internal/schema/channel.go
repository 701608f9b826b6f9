package schema

var channelTable = Table{
	Kind:    KindChannel,
	Version: 1,
	Descriptors: []Descriptor{
		// Parent is 0 when the channel sits at the root.
		intProp(channelGetters, "parent_channel_id"),
		stringProp(channelGetters, "name"),
		stringProp(channelGetters, "topic"),
		enumProp(channelGetters, "codec", "codec"),
		intProp(channelGetters, "codec_quality"),
		intProp(channelGetters, "max_clients"),
		intProp(channelGetters, "max_family_clients"),
		intProp(channelGetters, "order"),
		boolProp(channelGetters, "permanent"),
		boolProp(channelGetters, "semi_permanent"),
		boolProp(channelGetters, "default"),
		boolProp(channelGetters, "password"),
		intProp(channelGetters, "codec_latency_factor"),
		boolProp(channelGetters, "codec_is_unencrypted"),
		secondsProp(channelGetters, "delete_delay"),
		boolProp(channelGetters, "max_clients_unlimited"),
		boolProp(channelGetters, "max_family_clients_unlimited"),
		boolProp(channelGetters, "subscribed"),
		intProp(channelGetters, "needed_talk_power"),
		intProp(channelGetters, "forced_silence"),
		stringProp(channelGetters, "phonetic_name"),
		intProp(channelGetters, "icon_id"),
		stringProp(channelGetters, "banner_gfx_url"),
		enumProp(channelGetters, "banner_mode", "hostbanner_mode"),
		// Only populated after the host fetches it on demand; reads as
		// unavailable until then and the merge keeps the last good value.
		stringProp(channelGetters, "description"),
	},
}
