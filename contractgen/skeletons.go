package contractgen

import "github.com/NEILBATCHELOR/Cap-Table-Management-v3/models"

func headerTemplate(imports, base string) string {
	return `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.20;

` + imports + `

/// @title {{Name}} ({{Symbol}})
/// @notice {{Description}}
/// @custom:standard {{Standard}}
/// @custom:category {{Category}}
/// @custom:product {{Product}}
contract {{ContractName}} is ` + base + ` {
`
}

const closingFooter = "}\n"

func defaultSkeletons() map[models.Standard]Skeleton {
	return map[models.Standard]Skeleton{
		models.StandardERC20: {
			Header: headerTemplate(`import "@openzeppelin/contracts/token/ERC20/ERC20.sol";`, "ERC20"),
			Constructor: `    uint8 private constant _DECIMALS = {{Decimals}};
    uint256 public immutable issuanceDate = {{IssuanceEpoch}};

    constructor() ERC20({{NameLiteral}}, {{SymbolLiteral}}) {
        _mint(msg.sender, {{SupplyExpression}});
    }

    function decimals() public pure override returns (uint8) {
        return _DECIMALS;
    }
`,
			Footer: closingFooter,
		},
		models.StandardERC721: {
			Header: headerTemplate(`import "@openzeppelin/contracts/token/ERC721/ERC721.sol";`, "ERC721"),
			Constructor: `    uint256 public constant MAX_SUPPLY = {{TotalSupply}};
    uint256 public immutable issuanceDate = {{IssuanceEpoch}};
    uint256 internal _nextTokenId = 1;

    constructor() ERC721({{NameLiteral}}, {{SymbolLiteral}}) {}
`,
			Footer: closingFooter,
		},
		models.StandardERC1155: {
			Header: headerTemplate(`import "@openzeppelin/contracts/token/ERC1155/ERC1155.sol";`, "ERC1155"),
			Constructor: `    string public name = {{NameLiteral}};
    string public symbol = {{SymbolLiteral}};
    uint256 public constant PRIMARY_ID = 0;
    uint256 public immutable issuanceDate = {{IssuanceEpoch}};

    constructor() ERC1155("") {
        _mint(msg.sender, PRIMARY_ID, {{SupplyExpression}}, "");
    }
`,
			Footer: closingFooter,
		},
		models.StandardERC1400: {
			Header: headerTemplate(`import "./ERC1400.sol";`, "ERC1400"),
			Constructor: `    mapping(bytes32 => uint256) public partitionRateBps;
    uint256 public immutable issuanceDate = {{IssuanceEpoch}};

    constructor() ERC1400({{NameLiteral}}, {{SymbolLiteral}}, {{Decimals}}) {
{{SlotInitCall}}    }
`,
			Footer: `
    function _seedPartition(bytes32 partition, uint256 value, uint256 rateBps) internal {
        partitionRateBps[partition] = rateBps;
        _issueByPartition(partition, msg.sender, msg.sender, value, "");
    }
}
`,
			Slots: &SlotTemplate{
				Open:      "\n    function _initializeTranches() internal {\n",
				Statement: `        _seedPartition(bytes32(uint256({{TrancheID}})), {{TrancheValue}}, {{TrancheRateBps}}); // {{TrancheName}}`,
				Close:     "\n    }\n",
				Call:      "        _initializeTranches();\n",
			},
		},
		models.StandardERC3525: {
			Header: headerTemplate(`import "@solvprotocol/erc-3525/ERC3525.sol";`, "ERC3525"),
			Constructor: `    mapping(uint256 => string) public slotLabels;
    mapping(uint256 => uint256) public slotRateBps;
    uint256 public immutable issuanceDate = {{IssuanceEpoch}};

    constructor() ERC3525({{NameLiteral}}, {{SymbolLiteral}}, {{Decimals}}) {
{{SlotInitCall}}    }
`,
			Footer: `
    function _createSlot(uint256 slot, string memory label, uint256 value, uint256 rateBps) internal {
        slotLabels[slot] = label;
        slotRateBps[slot] = rateBps;
        _mint(msg.sender, slot, value);
    }
}
`,
			Slots: &SlotTemplate{
				Open:      "\n    function _initializeTranches() internal {\n",
				Statement: `        _createSlot({{TrancheID}}, {{TrancheNameLiteral}}, {{TrancheValue}}, {{TrancheRateBps}});`,
				Close:     "\n    }\n",
				Call:      "        _initializeTranches();\n",
			},
		},
		models.StandardERC4626: {
			Header: headerTemplate(`import "@openzeppelin/contracts/token/ERC20/extensions/ERC4626.sol";`, "ERC4626"),
			Constructor: `    uint256 public constant DEPOSIT_CAP = {{SupplyExpression}};
    uint256 public immutable issuanceDate = {{IssuanceEpoch}};

    constructor(IERC20 asset_) ERC20({{NameLiteral}}, {{SymbolLiteral}}) ERC4626(asset_) {}

    function maxDeposit(address) public view override returns (uint256) {
        return DEPOSIT_CAP - totalAssets();
    }
`,
			Footer: closingFooter,
		},
	}
}
