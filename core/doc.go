/*
Package core holds types shared by all packages of the resource database:
the error taxonomy and the allocator abstraction.

Errors carry a numeric code (see EMISSING, EINVALID, etc.) and a user message.
Clients should inspect errors with Code or IsWarning. A warning (EWARNING)
accompanies a valid result which had to be partially substituted.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package core
