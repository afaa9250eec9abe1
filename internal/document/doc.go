// Package document models a parsed JSON configuration file as a tagged
// variant tree and walks it to transform string leaves.
//
// The tree preserves what encoding/json maps would destroy:
//   - object member order, so encrypted files stay human-diffable
//   - number source literals, so non-string leaves survive a round trip
//     bit-for-bit
//
// Only string leaves are ever transformed. Numbers, booleans, null, object
// keys and array positions pass through every walk unchanged.
package document
