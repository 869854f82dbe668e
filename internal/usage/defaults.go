package usage

// DefaultFreeLimit is the number of resume analyses each client token gets.
const DefaultFreeLimit = 10
