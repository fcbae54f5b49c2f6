package utils

// Authorize is the single ownership predicate used before any mutation or any
// read of another party's private data: the authenticated caller must be the
// resource owner. Exact match on the normalized wallet address.
func Authorize(callerWallet, ownerWallet string) bool {
	caller := NormalizeWalletAddress(callerWallet)
	owner := NormalizeWalletAddress(ownerWallet)
	return caller != "" && caller == owner
}

// AuthorizeAny reports whether the caller is one of the listed owners. Used
// for records with two parties, like verification requests.
func AuthorizeAny(callerWallet string, ownerWallets ...string) bool {
	for _, owner := range ownerWallets {
		if Authorize(callerWallet, owner) {
			return true
		}
	}
	return false
}
