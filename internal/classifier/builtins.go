package classifier

// builtinReadOnlyFunctions lists the built-in functions that neither modify
// data nor depend on state that only the primary holds. A call to anything
// not listed here marks the statement as a write.
var builtinReadOnlyFunctions = toSet(
	// Aggregate
	"avg", "bit_and", "bit_or", "bit_xor", "count", "group_concat",
	"json_arrayagg", "json_objectagg", "max", "min", "std", "stddev",
	"stddev_pop", "stddev_samp", "sum", "var_pop", "var_samp", "variance",

	// Window
	"cume_dist", "dense_rank", "first_value", "lag", "last_value", "lead",
	"nth_value", "ntile", "percent_rank", "rank", "row_number",

	// Comparison and control flow
	"coalesce", "greatest", "if", "ifnull", "interval", "isnull", "least",
	"nullif", "strcmp",

	// String
	"ascii", "bin", "bit_length", "char", "char_length", "character_length",
	"concat", "concat_ws", "elt", "export_set", "field", "find_in_set",
	"format", "from_base64", "hex", "insert", "instr", "lcase", "left",
	"length", "like", "load_file", "locate", "lower", "lpad", "ltrim",
	"make_set", "match", "mid", "oct", "octet_length", "ord", "position",
	"quote", "regexp", "regexp_instr", "regexp_like", "regexp_replace",
	"regexp_substr", "repeat", "replace", "reverse", "right", "rlike",
	"rpad", "rtrim", "soundex", "space", "substr", "substring",
	"substring_index", "to_base64", "trim", "ucase", "unhex", "upper",
	"weight_string",

	// Numeric
	"abs", "acos", "asin", "atan", "atan2", "ceil", "ceiling", "conv", "cos",
	"cot", "crc32", "degrees", "div", "exp", "floor", "ln", "log", "log10",
	"log2", "mod", "pi", "pow", "power", "radians", "rand", "round", "sign",
	"sin", "sqrt", "tan", "truncate",

	// Date and time
	"adddate", "addtime", "convert_tz", "curdate", "current_date",
	"current_time", "current_timestamp", "curtime", "date", "date_add",
	"date_format", "date_sub", "datediff", "day", "dayname", "dayofmonth",
	"dayofweek", "dayofyear", "extract", "from_days", "from_unixtime",
	"get_format", "hour", "last_day", "localtime", "localtimestamp",
	"makedate", "maketime", "microsecond", "minute", "month", "monthname",
	"now", "period_add", "period_diff", "quarter", "sec_to_time", "second",
	"str_to_date", "subdate", "subtime", "sysdate", "time", "time_format",
	"time_to_sec", "timediff", "timestamp", "timestampadd", "timestampdiff",
	"to_days", "to_seconds", "unix_timestamp", "utc_date", "utc_time",
	"utc_timestamp", "week", "weekday", "weekofyear", "year", "yearweek",

	// Cast and conversion
	"binary", "cast", "convert",

	// Encryption and hashing
	"aes_decrypt", "aes_encrypt", "compress", "decode", "des_decrypt",
	"des_encrypt", "encode", "encrypt", "md5", "old_password", "password",
	"random_bytes", "sha", "sha1", "sha2", "statement_digest",
	"statement_digest_text", "uncompress", "uncompressed_length",
	"validate_password_strength",

	// Information
	"benchmark", "charset", "coercibility", "collation", "connection_id",
	"current_role", "current_user", "database", "found_rows", "row_count",
	"schema", "session_user", "system_user", "user", "version",

	// JSON
	"json_array", "json_array_append", "json_array_insert", "json_contains",
	"json_contains_path", "json_depth", "json_extract", "json_insert",
	"json_keys", "json_length", "json_merge", "json_merge_patch",
	"json_merge_preserve", "json_object", "json_overlaps", "json_pretty",
	"json_quote", "json_remove", "json_replace", "json_schema_valid",
	"json_schema_validation_report", "json_search", "json_set",
	"json_storage_free", "json_storage_size", "json_table", "json_type",
	"json_unquote", "json_valid", "json_value", "member_of",

	// Miscellaneous
	"any_value", "bin_to_uuid", "default", "grouping", "inet6_aton",
	"inet6_ntoa", "inet_aton", "inet_ntoa", "is_free_lock", "is_ipv4",
	"is_ipv4_compat", "is_ipv4_mapped", "is_ipv6", "is_used_lock",
	"is_uuid", "name_const", "uuid", "uuid_short", "uuid_to_bin", "values",

	// XML
	"extractvalue", "updatexml",

	// Spatial
	"st_area", "st_asbinary", "st_asgeojson", "st_astext", "st_buffer",
	"st_centroid", "st_contains", "st_crosses", "st_difference",
	"st_dimension", "st_disjoint", "st_distance", "st_distance_sphere",
	"st_endpoint", "st_envelope", "st_equals", "st_geomfromgeojson",
	"st_geomfromtext", "st_geomfromwkb", "st_intersection", "st_intersects",
	"st_isclosed", "st_isempty", "st_isvalid", "st_length", "st_numpoints",
	"st_overlaps", "st_pointn", "st_srid", "st_startpoint", "st_touches",
	"st_union", "st_within", "st_x", "st_y",
)

func toSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
